package service

import (
	"context"

	"sheetchat/pkg/ai"
)

// ChatService answers one user message against one document session.
// The returned string is always a user-facing answer: a missing or unknown
// document resolves to a fixed prompt-to-select string, not an error.
// The error return covers storage faults only, never provider faults.
type ChatService interface {
	Ask(ctx context.Context, docID, message, model string, o *ai.Overrides) (string, error)
}
