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

const DefaultOllamaURL = "http://localhost:11434"

type ollama struct {
	base       string
	embedModel string
	chatModel  string
	httpc      *http.Client
}

// NewOllama targets a local Ollama server. No API key, and chat calls
// carry the local-only knobs (threads, accelerators, repetition penalty,
// stop sequences) the cloud family does not accept.
func NewOllama(base, embedModel, chatModel string) Client {
	if base == "" {
		base = DefaultOllamaURL
	}
	return &ollama{
		base:       strings.TrimRight(base, "/"),
		embedModel: embedModel,
		chatModel:  chatModel,
		httpc:      &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	body := map[string]any{"model": c.embedModel, "input": texts}
	var out struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := c.post(ctx, "/api/embed", body, &out); err != nil {
		return nil, err
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(out.Embeddings), len(texts))
	}
	return out.Embeddings, nil
}

func (c *ollama) Complete(ctx context.Context, system, user string, p Params) (string, error) {
	body := map[string]any{
		"model":  c.chatModel,
		"stream": false,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"options": map[string]any{
			"temperature":       p.Temperature,
			"top_p":             p.TopP,
			"top_k":             30,
			"num_ctx":           p.MaxTokens,
			"num_thread":        p.NumThread,
			"num_gpu":           p.NumGPU,
			"repeat_penalty":    1.2,
			"frequency_penalty": 0.5,
			"presence_penalty":  0.5,
			"stop":              []string{"</answer>"},
		},
	}
	var out struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := c.post(ctx, "/api/chat", body, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Message.Content), nil
}

func (c *ollama) post(ctx context.Context, path string, body, out any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
