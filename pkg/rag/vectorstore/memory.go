// Package vectorstore holds chunk embeddings in memory and answers
// nearest-neighbour queries by brute-force cosine similarity. A store
// lives for a single question: it is rebuilt from the session's rows on
// every ask, never cached across requests.
package vectorstore

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"sheetchat/pkg/rag"
)

// Result is a matching chunk with its similarity score.
type Result struct {
	Chunk rag.Chunk
	Score float64
}

// Memory is an in-memory store. Scoring fans out across at most workers
// goroutines; reads and writes are guarded so the store is safe to share,
// though in practice one request owns it end to end.
type Memory struct {
	mu      sync.RWMutex
	chunks  []rag.Chunk
	vectors [][]float32
	workers int
}

func NewMemory(workers int) *Memory {
	if workers <= 0 {
		workers = 5
	}
	return &Memory{workers: workers}
}

func (m *Memory) Upsert(chunks []rag.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// Search returns up to k chunks scoring at least minScore against the
// query vector, best first.
func (m *Memory) Search(ctx context.Context, query []float32, k int, minScore float64) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.chunks) == 0 {
		return nil, nil
	}

	scores := make([]float64, len(m.vectors))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	stride := (len(m.vectors) + m.workers - 1) / m.workers
	for lo := 0; lo < len(m.vectors); lo += stride {
		lo := lo
		hi := lo + stride
		if hi > len(m.vectors) {
			hi = len(m.vectors)
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				scores[i] = Cosine(query, m.vectors[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]Result, 0, k)
	for _, i := range idx {
		if scores[i] < minScore {
			break
		}
		out = append(out, Result{Chunk: m.chunks[i], Score: scores[i]})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// Cosine similarity over the shared prefix of two vectors. A zero or
// empty vector scores 0.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
