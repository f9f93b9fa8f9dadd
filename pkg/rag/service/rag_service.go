package service

import (
	"context"

	"sheetchat/pkg/ai"
	"sheetchat/pkg/ingest"
)

// RAGService answers one question over one dataset. The returned string is
// always user-facing: provider faults are converted to fixed messages at
// this boundary and never propagate raw.
type RAGService interface {
	Answer(ctx context.Context, table *ingest.Table, question string, client ai.Client, p ai.Params) string
}
