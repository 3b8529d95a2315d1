package chunker

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	DefaultMaxSizeHint = 1000
	DefaultOverlap     = 0.15

	// charsPerToken turns the size hint into a character budget.
	charsPerToken = 4
	maxOverlap    = 0.9
)

// Piece is one chunk plus the number of leading words copied from the previous chunk.
type Piece struct {
	Text         string
	OverlapWords int
}

// Chunk splits text into sentence-aligned, overlapping segments.
func Chunk(text string, maxSizeHint int, overlapFraction float64) []string {
	pieces := ChunkWithOffsets(text, maxSizeHint, overlapFraction)
	out := make([]string, len(pieces))
	for i, p := range pieces {
		out[i] = p.Text
	}
	return out
}

// ChunkWithOffsets is Chunk with overlap bookkeeping. Dropping the first OverlapWords words of
// every piece and concatenating the rest yields the original sentences in order.
func ChunkWithOffsets(text string, maxSizeHint int, overlapFraction float64) []Piece {
	if maxSizeHint <= 0 {
		maxSizeHint = DefaultMaxSizeHint
	}
	if overlapFraction < 0 || math.IsNaN(overlapFraction) {
		overlapFraction = 0
	}
	if overlapFraction > maxOverlap {
		overlapFraction = maxOverlap
	}
	threshold := maxSizeHint * charsPerToken

	var (
		pieces  []Piece
		buf     strings.Builder
		seeded  int
		hasText bool
	)

	for _, sentence := range SplitSentences(text) {
		if hasText && utf8.RuneCountInString(buf.String())+1+utf8.RuneCountInString(sentence) > threshold {
			prev := buf.String()
			pieces = append(pieces, Piece{Text: prev, OverlapWords: seeded})

			tail := trailingWords(prev, overlapFraction)
			buf.Reset()
			buf.WriteString(strings.Join(tail, " "))
			seeded = len(tail)
			hasText = seeded > 0
		}

		if hasText {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)
		hasText = true
	}

	if hasText {
		pieces = append(pieces, Piece{Text: buf.String(), OverlapWords: seeded})
	}
	return pieces
}

// trailingWords returns the last ceil(n*fraction) words of s.
func trailingWords(s string, fraction float64) []string {
	if fraction == 0 {
		return nil
	}
	words := strings.Fields(s)
	n := int(math.Ceil(float64(len(words)) * fraction))
	if n > len(words) {
		n = len(words)
	}
	return words[len(words)-n:]
}

// SplitSentences breaks text after each run of '.', '!' or '?'. Text after the last
// terminator is a sentence of its own. Blank sentences are dropped.
func SplitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)

	flush := func(end int) {
		if s := strings.Join(strings.Fields(text[start:end]), " "); s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) && isTerminator(text[j]) {
			j++
		}
		flush(j)
		i = j - 1
	}
	flush(len(text))

	return sentences
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
