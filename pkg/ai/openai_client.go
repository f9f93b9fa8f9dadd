package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const DefaultOpenAIEndpoint = "https://api.openai.com"

type openAI struct {
	endpoint   string
	key        string
	embedModel string
	chatModel  string
	httpc      *http.Client
}

// NewOpenAI targets any OpenAI-compatible endpoint. The cloud family
// accepts temperature, top_p and max token length only.
func NewOpenAI(endpoint, key, embedModel, chatModel string) Client {
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	return &openAI{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		embedModel: embedModel,
		chatModel:  chatModel,
		httpc:      &http.Client{Timeout: 60 * time.Second},
	}
}

// embedDimensions follows the provider's fixed per-model dimensionality:
// the small embedding models run at 512 units, the rest at 1536.
func embedDimensions(model string) int {
	if strings.Contains(model, "small") {
		return 512
	}
	return 1536
}

func (c *openAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	body := map[string]any{
		"model":      c.embedModel,
		"input":      texts,
		"dimensions": embedDimensions(c.embedModel),
	}
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/v1/embeddings", body, &out); err != nil {
		return nil, err
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		res[i] = out.Data[i].Embedding
	}
	return res, nil
}

func (c *openAI) Complete(ctx context.Context, system, user string, p Params) (string, error) {
	body := map[string]any{
		"model": c.chatModel,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": p.Temperature,
		"top_p":       p.TopP,
		"max_tokens":  p.MaxTokens,
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/v1/chat/completions", body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat: no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (c *openAI) post(ctx context.Context, path string, body, out any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
