// Package ai talks to the model providers. One capability interface covers
// both families (local Ollama, OpenAI-compatible cloud); the family is
// picked once when the request's parameters are resolved, so nothing
// downstream branches on a provider type string.
package ai

import "context"

type Client interface {
	// Embed returns one vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Complete runs a system/human prompt pair through the chat model.
	Complete(ctx context.Context, system, user string, p Params) (string, error)
}

// Factory builds clients from the configured endpoints. A cloud family
// without an API key degrades to the mock client rather than failing.
type Factory struct {
	OllamaURL      string
	OpenAIEndpoint string
	OpenAIKey      string
}

func (f Factory) Client(family Family, embedModel, chatModel string) Client {
	if family == FamilyOpenAI {
		if f.OpenAIKey != "" {
			return NewOpenAI(f.OpenAIEndpoint, f.OpenAIKey, embedModel, chatModel)
		}
		return NewMock()
	}
	return NewOllama(f.OllamaURL, embedModel, chatModel)
}
