// Package chunker splits row documents into overlapping segments for
// embedding. Splitting prefers the largest separator that keeps segments
// under the size bound and recurses down the ladder when it does not,
// so chunk edges land on paragraph, line or sentence boundaries whenever
// the text allows it.
package chunker

import (
	"strings"
	"unicode/utf8"

	"sheetchat/pkg/rag"
)

// Separator ladder, largest first. Sentence punctuation covers both Latin
// and CJK scripts; the empty string is the character-level last resort.
func defaultSeparators() []string {
	return []string{
		"\n\n\n",
		"\n\n",
		"\n",
		"。", ". ",
		"！", "! ",
		"？", "? ",
		"；", "; ",
		": ",
		"，", ", ",
		" ",
		"",
	}
}

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 500
)

type Splitter struct {
	separators   []string
	chunkSize    int
	chunkOverlap int
}

func New(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Splitter{separators: defaultSeparators(), chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Length measures text as the greater of its rune count and its count of
// ASCII letters plus spaces. Text dominated by non-alphabetic scripts
// still pays full price per glyph, so it never under-splits.
func Length(s string) int {
	runes := utf8.RuneCountInString(s)
	alpha := 0
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ' ' || r == '\t' || r == '\n' {
			alpha++
		}
	}
	if alpha > runes {
		return alpha
	}
	return runes
}

// SplitDocuments chunks every document in order. Each chunk carries its
// parent document's metadata unchanged, and Ord numbers chunks across the
// whole dataset.
func (s *Splitter) SplitDocuments(docs []rag.Document) []rag.Chunk {
	var out []rag.Chunk
	for _, d := range docs {
		for _, text := range s.SplitText(d.Content) {
			out = append(out, rag.Chunk{Text: text, Ord: len(out), Meta: d.Meta})
		}
	}
	return out
}

// SplitText splits one text into segments no longer than the chunk size,
// with adjacent segments overlapping by up to the configured amount.
func (s *Splitter) SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	splits := s.split(text, s.separators)
	return s.merge(splits)
}

// split recursively cuts text down to pieces under the size bound,
// keeping separators attached so reassembly is lossless.
func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	rest := []string{}
	for i, cand := range separators {
		if cand == "" || strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	var parts []string
	if sep == "" {
		parts = s.splitRunes(text)
	} else {
		parts = splitKeep(text, sep)
	}

	var out []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if Length(p) <= s.chunkSize {
			out = append(out, p)
		} else if len(rest) > 0 {
			out = append(out, s.split(p, rest)...)
		} else {
			out = append(out, s.splitRunes(p)...)
		}
	}
	return out
}

// splitKeep splits on sep, keeping the separator attached to the piece
// it terminates.
func splitKeep(text, sep string) []string {
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			out = append(out, p+sep)
		} else if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Splitter) splitRunes(text string) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += s.chunkSize {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// merge packs small splits into chunks up to the size bound, carrying the
// tail of each chunk forward as the next chunk's overlap.
func (s *Splitter) merge(splits []string) []string {
	if len(splits) == 0 {
		return nil
	}
	var chunks []string
	var cur []string
	curLen := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		if joined := strings.Join(cur, ""); joined != "" {
			chunks = append(chunks, joined)
		}
	}

	for _, split := range splits {
		l := Length(split)
		if curLen > 0 && curLen+l > s.chunkSize {
			flush()
			cur = s.overlapTail(cur)
			curLen = 0
			for _, p := range cur {
				curLen += Length(p)
			}
			// shed carried overlap until the incoming split fits the bound
			for len(cur) > 0 && curLen+l > s.chunkSize {
				curLen -= Length(cur[0])
				cur = cur[1:]
			}
		}
		cur = append(cur, split)
		curLen += l
	}
	flush()
	return chunks
}

// overlapTail returns the trailing splits that make up the next chunk's
// leading overlap, at most chunkOverlap length units.
func (s *Splitter) overlapTail(cur []string) []string {
	if s.chunkOverlap == 0 || len(cur) == 0 {
		return nil
	}
	var tail []string
	total := 0
	for i := len(cur) - 1; i >= 0; i-- {
		l := Length(cur[i])
		if total+l > s.chunkOverlap {
			break
		}
		tail = append([]string{cur[i]}, tail...)
		total += l
	}
	return tail
}
