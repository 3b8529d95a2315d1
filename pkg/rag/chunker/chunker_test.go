package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"basic", "One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"terminator runs", "Wait... what?! Ok.", []string{"Wait...", "what?!", "Ok."}},
		{"no terminator", "just a fragment", []string{"just a fragment"}},
		{"trailing fragment", "Done. and more", []string{"Done.", "and more"}},
		{"whitespace collapsed", "  Line\n one.\n\n  Line two.  ", []string{"Line one.", "Line two."}},
		{"only punctuation gaps", "A. . B.", []string{"A.", ".", "B."}},
		{"empty", "   \n\t ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.input))
		})
	}
}

func TestChunk_EdgeCases(t *testing.T) {
	t.Run("whitespace only yields nothing", func(t *testing.T) {
		assert.Empty(t, Chunk("  \n ", 10, 0.15))
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"HTML is for structure."}, Chunk("HTML is for structure.", DefaultMaxSizeHint, DefaultOverlap))
	})

	t.Run("oversized sentence kept whole", func(t *testing.T) {
		long := strings.Repeat("word ", 50) + "end."
		chunks := Chunk(long, 2, 0.15)
		require.Len(t, chunks, 1)
		assert.Equal(t, strings.Join(strings.Fields(long), " "), chunks[0])
	})

	t.Run("non positive hint falls back to default", func(t *testing.T) {
		assert.Equal(t, Chunk("A. B. C.", DefaultMaxSizeHint, 0), Chunk("A. B. C.", 0, 0))
	})
}

func TestChunk_SplitsAndOverlaps(t *testing.T) {
	// threshold is 5*4 = 20 characters
	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota."

	t.Run("without overlap", func(t *testing.T) {
		chunks := Chunk(text, 5, 0)
		assert.Equal(t, []string{"Alpha beta gamma.", "Delta epsilon zeta.", "Eta theta iota."}, chunks)
	})

	t.Run("with overlap", func(t *testing.T) {
		pieces := ChunkWithOffsets(text, 5, 0.5)
		require.Len(t, pieces, 3)
		assert.Equal(t, "Alpha beta gamma.", pieces[0].Text)
		assert.Zero(t, pieces[0].OverlapWords)
		// ceil(3 * 0.5) = 2 trailing words carried over
		assert.Equal(t, "beta gamma. Delta epsilon zeta.", pieces[1].Text)
		assert.Equal(t, 2, pieces[1].OverlapWords)
		assert.Equal(t, "Delta epsilon zeta. Eta theta iota.", pieces[2].Text)
		assert.Equal(t, 3, pieces[2].OverlapWords)
	})
}

func TestChunk_ReconstructsSentences(t *testing.T) {
	text := strings.Repeat("Flexbox aligns items on one axis. Grid handles two dimensions! Why use both? ", 40) +
		"A closing remark without a terminator"

	for _, overlap := range []float64{0, 0.15, 0.5, 0.9} {
		pieces := ChunkWithOffsets(text, 25, overlap)
		require.NotEmpty(t, pieces)

		var rebuilt []string
		for _, p := range pieces {
			assert.NotEmpty(t, strings.TrimSpace(p.Text))
			rebuilt = append(rebuilt, strings.Fields(p.Text)[p.OverlapWords:]...)
		}
		assert.Equal(t, strings.Fields(strings.Join(SplitSentences(text), " ")), rebuilt, "overlap %v", overlap)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	text := strings.Repeat("Semantic HTML helps screen readers. ", 100)
	assert.Equal(t, Chunk(text, 30, 0.15), Chunk(text, 30, 0.15))
}
