package ai

import (
	"context"
	"hash/fnv"
)

const mockDimension = 16

type mockClient struct{}

// NewMock returns a deterministic offline client: embeddings are derived
// from a hash of the text, completions echo a canned analysis line. Used
// in tests and when the cloud family is selected without an API key.
func NewMock() Client { return &mockClient{} }

func (m *mockClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, mockDimension)
		h := fnv.New32a()
		_, _ = h.Write([]byte(t))
		seed := h.Sum32()
		for j := range v {
			seed = seed*1664525 + 1013904223
			v[j] = float32(seed%1000)/1000.0 - 0.5
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockClient) Complete(_ context.Context, _, user string, _ Params) (string, error) {
	return "Mock analysis for: " + user, nil
}
