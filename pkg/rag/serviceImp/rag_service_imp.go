package serviceImp

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"sheetchat/pkg/ai"
	"sheetchat/pkg/ingest"
	"sheetchat/pkg/rag"
	"sheetchat/pkg/rag/chunker"
	"sheetchat/pkg/rag/vectorstore"
)

// Fixed user-facing strings. Provider and retrieval faults always resolve
// to one of these, never to a raw error.
const (
	NoRelevantContext = "No relevant data found in the dataset."
	RetrievalFault    = "Error accessing the relevant data."
	EmptyAnswer       = "I apologize, but I couldn't find enough relevant information to answer your question accurately. Could you please rephrase or provide more context?"
	ProviderFault     = "I encountered an error while processing your request. This might be due to the complexity of the query or data limitations. Could you try simplifying your question?"
)

const systemPrompt = `You are a precise data analyst specialized in analyzing Excel data.
Your primary task is to provide accurate numerical analysis and counts based on the data.

Guidelines for Data Analysis:
1. Always analyze ALL matching records in the dataset
2. When counting or analyzing data:
   - Consider the entire dataset
   - Double-check your calculations
   - Include the total number of records analyzed
3. For status or category counts:
   - List all unique values found
   - Provide exact counts for each
4. Format numbers using Indonesian locale
5. Always mention the total records analyzed
6. Provide specific row references when applicable

Current Data Context:
%CONTEXT%

Remember:
- Be extremely precise with numbers
- Analyze ALL instances, not just the first few
- Verify calculations multiple times
- Consider the entire dataset
- State if data appears incomplete or inconsistent`

// Options are the retrieval knobs. Zero values fall back to the defaults
// the pipeline was tuned with.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	KRatio       float64
	KFloor       int
	KCeil        int
	MinScore     float64
	Concurrency  int
	EmbedBatch   int
}

func (o *Options) fill() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = chunker.DefaultChunkSize
	}
	if o.ChunkOverlap <= 0 {
		o.ChunkOverlap = chunker.DefaultChunkOverlap
	}
	if o.KRatio <= 0 {
		o.KRatio = 0.2
	}
	if o.KFloor <= 0 {
		o.KFloor = 20
	}
	if o.KCeil <= 0 {
		o.KCeil = 100
	}
	if o.MinScore <= 0 {
		o.MinScore = 0.7
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 5
	}
	if o.EmbedBatch <= 0 {
		o.EmbedBatch = 32
	}
}

type Svc struct {
	split *chunker.Splitter
	opts  Options
}

func New(opts Options) *Svc {
	opts.fill()
	return &Svc{split: chunker.New(opts.ChunkSize, opts.ChunkOverlap), opts: opts}
}

// Answer rebuilds the vector store from the table's rows, retrieves the
// most relevant chunks for the question, and asks the generation model.
// No caching: asking the same document twice runs two full cycles.
func (s *Svc) Answer(ctx context.Context, table *ingest.Table, question string, client ai.Client, p ai.Params) string {
	store, err := s.build(ctx, table, client, p)
	if err != nil {
		log.Printf("[rag] build store: %v", err)
		return ProviderFault
	}

	ctxBlock := s.retrieve(ctx, store, question, client)
	prompt := strings.Replace(systemPrompt, "%CONTEXT%", ctxBlock, 1)

	answer, err := client.Complete(ctx, prompt, question, p)
	if err != nil {
		log.Printf("[rag] complete: %v", err)
		return ProviderFault
	}
	if answer == "" {
		return EmptyAnswer
	}
	return answer
}

// build embeds every chunk of the dataset into a fresh in-memory store.
func (s *Svc) build(ctx context.Context, table *ingest.Table, client ai.Client, p ai.Params) (*vectorstore.Memory, error) {
	docs := rag.FromTable(table, time.Now())
	chunks := s.split.SplitDocuments(docs)
	store := vectorstore.NewMemory(s.opts.Concurrency)

	batch := s.opts.EmbedBatch
	if p.BatchSize > 0 {
		batch = p.BatchSize
	}
	for lo := 0; lo < len(chunks); lo += batch {
		hi := lo + batch
		if hi > len(chunks) {
			hi = len(chunks)
		}
		texts := make([]string, 0, hi-lo)
		for _, ch := range chunks[lo:hi] {
			texts = append(texts, ch.Text)
		}
		vecs, err := client.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		if err := store.Upsert(chunks[lo:hi], vecs); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// retrieve returns the context block for the prompt. Retrieval problems
// degrade to fixed context strings so the question still reaches the model.
func (s *Svc) retrieve(ctx context.Context, store *vectorstore.Memory, question string, client ai.Client) string {
	qvecs, err := client.Embed(ctx, []string{question})
	if err != nil || len(qvecs) == 0 {
		log.Printf("[rag] embed question: %v", err)
		return RetrievalFault
	}

	k := RetrievalWidth(store.Len(), s.opts.KRatio, s.opts.KFloor, s.opts.KCeil)
	results, err := store.Search(ctx, qvecs[0], k, s.opts.MinScore)
	if err != nil {
		log.Printf("[rag] search: %v", err)
		return RetrievalFault
	}
	if len(results) == 0 {
		return NoRelevantContext
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk.Text)
	}
	total := strconv.Itoa(results[0].Chunk.Meta.TotalRows)
	return "Total Records in Dataset: " + total + "\n\nRelevant Data:\n" + strings.Join(parts, "\n\n")
}

// RetrievalWidth scales context size with the dataset while bounding
// latency: k = clamp(ceil(ratio*total), floor, ceil).
func RetrievalWidth(totalChunks int, ratio float64, floor, ceil int) int {
	k := int(math.Ceil(ratio * float64(totalChunks)))
	if k < floor {
		k = floor
	}
	if k > ceil {
		k = ceil
	}
	return k
}
