package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// ModelInfo is one entry of the model catalogue shown to the user.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        Family `json:"type"`
	Parameters  Params `json:"parameters"`
}

// ListLocalModels asks the Ollama server for its installed chat models.
// Embedding-only models are filtered out of the chat list.
func ListLocalModels(ctx context.Context, base string) ([]ModelInfo, error) {
	if base == "" {
		base = DefaultOllamaURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	httpc := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out struct {
		Models []struct {
			Name string `json:"name"`
			Size int64  `json:"size"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	var models []ModelInfo
	for _, m := range out.Models {
		if strings.Contains(m.Name, "embed") {
			continue
		}
		models = append(models, ModelInfo{
			ID:          m.Name,
			Name:        strings.TrimSuffix(m.Name, ":latest"),
			Description: "Local Ollama model",
			Type:        FamilyLocal,
			Parameters:  Defaults(FamilyLocal, m.Name),
		})
	}
	return models, nil
}

// ListOpenAIModels lists the endpoint's GPT chat models.
func ListOpenAIModels(ctx context.Context, endpoint, key string) ([]ModelInfo, error) {
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(endpoint, "/")+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	httpc := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	var models []ModelInfo
	for _, m := range out.Data {
		if !strings.Contains(m.ID, "gpt") {
			continue
		}
		models = append(models, ModelInfo{
			ID:          m.ID,
			Name:        m.ID,
			Description: "OpenAI GPT model",
			Type:        FamilyOpenAI,
			Parameters:  Defaults(FamilyOpenAI, m.ID),
		})
	}
	return models, nil
}

// FallbackEmbeddingModels is the fixed catalogue returned when the
// provider listing calls fail; listing never surfaces an error.
func FallbackEmbeddingModels() []ModelInfo {
	return []ModelInfo{
		{ID: "nomic-embed-text", Name: "Nomic Embed Text", Description: "Local embedding model", Type: FamilyLocal},
		{ID: "text-embedding-3-small", Name: "Text Embedding 3 Small", Description: "Efficient, lower dimensional embeddings", Type: FamilyOpenAI},
		{ID: "text-embedding-3-large", Name: "Text Embedding 3 Large", Description: "High-performance embeddings", Type: FamilyOpenAI},
	}
}
