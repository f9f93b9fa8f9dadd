package ai

import "strings"

// Family selects the provider backend for a session.
type Family string

const (
	FamilyLocal  Family = "local"
	FamilyOpenAI Family = "openai"
)

// Params are the resolved sampling parameters a completion call runs with.
// NumThread, NumGPU and BatchSize only apply to the local family; the
// cloud family ignores them.
type Params struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
	NumThread   int     `json:"num_thread,omitempty"`
	NumGPU      int     `json:"num_gpu,omitempty"`
	BatchSize   int     `json:"batch_size,omitempty"`
}

// Overrides are the caller's explicit parameter choices. Nil fields mean
// "use the family default"; set fields always win.
type Overrides struct {
	Type        string   `json:"type,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	NumThread   *int     `json:"num_thread,omitempty"`
	NumGPU      *int     `json:"num_gpu,omitempty"`
	BatchSize   *int     `json:"batch_size,omitempty"`
}

// ParseFamily maps the wire "type" string onto a family; anything that is
// not explicitly the cloud family runs locally.
func ParseFamily(s string) Family {
	if strings.EqualFold(strings.TrimSpace(s), string(FamilyOpenAI)) {
		return FamilyOpenAI
	}
	return FamilyLocal
}

// DefaultChatModel is the model id a family resets to when selected.
func DefaultChatModel(f Family) string {
	if f == FamilyOpenAI {
		return "gpt-3.5-turbo"
	}
	return "llama3.2"
}

// DefaultEmbedModel is the embedding model a family resets to.
func DefaultEmbedModel(f Family) string {
	if f == FamilyOpenAI {
		return "text-embedding-3-small"
	}
	return "nomic-embed-text"
}

// Defaults returns the family's sampling defaults for a given chat model.
func Defaults(f Family, model string) Params {
	if f == FamilyOpenAI {
		max := 4096
		if strings.Contains(model, "gpt-4") {
			max = 8192
		}
		return Params{Temperature: 0.7, TopP: 1, MaxTokens: max}
	}
	return Params{
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   8192,
		NumThread:   8,
		NumGPU:      1,
		BatchSize:   512,
	}
}

// Resolve merges the caller's overrides onto the family defaults.
// Switching family resets everything to that family's defaults first.
func Resolve(f Family, model string, o *Overrides) Params {
	p := Defaults(f, model)
	if o == nil {
		return p
	}
	if o.Temperature != nil {
		p.Temperature = *o.Temperature
	}
	if o.TopP != nil {
		p.TopP = *o.TopP
	}
	if o.MaxTokens != nil {
		p.MaxTokens = *o.MaxTokens
	}
	if o.NumThread != nil {
		p.NumThread = *o.NumThread
	}
	if o.NumGPU != nil {
		p.NumGPU = *o.NumGPU
	}
	if o.BatchSize != nil {
		p.BatchSize = *o.BatchSize
	}
	return p
}
