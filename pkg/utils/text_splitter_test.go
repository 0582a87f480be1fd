package utils

import (
	"fmt"
	"strings"
	"testing"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      int
	}{
		{"empty text", "", 512, 50, 0},
		{"whitespace only", "   \n\t  ", 512, 50, 0},
		{"fits in one chunk", makeWords(100), 512, 50, 1},
		{"exactly chunk size", makeWords(512), 512, 50, 1},
		{"two chunks", makeWords(600), 512, 50, 2},
		{"many chunks", makeWords(2000), 512, 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWords(tt.text, tt.chunkSize, tt.overlap)
			if len(got) != tt.want {
				t.Errorf("got %d chunks, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSplitWordsOverlap(t *testing.T) {
	chunks := SplitWords(makeWords(20), 10, 3)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	// The last 3 words of chunk 0 open chunk 1.
	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	for i := 0; i < 3; i++ {
		if first[len(first)-3+i] != second[i] {
			t.Errorf("overlap mismatch at %d: %s vs %s", i, first[len(first)-3+i], second[i])
		}
	}
}

func TestSplitWordsCoversAllWords(t *testing.T) {
	text := makeWords(1234)
	chunks := SplitWords(text, 512, 50)

	last := strings.Fields(chunks[len(chunks)-1])
	if last[len(last)-1] != "w1233" {
		t.Errorf("final word missing, got %s", last[len(last)-1])
	}
}

func TestSplitWordsOverlapAtLeastChunkSize(t *testing.T) {
	// Degenerate config must still terminate and cover the text.
	chunks := SplitWords(makeWords(30), 10, 10)
	if len(chunks) != 3 {
		t.Errorf("got %d chunks, want 3", len(chunks))
	}
}

func TestSplitWordsCollapsesWhitespace(t *testing.T) {
	got := SplitWords("a  b\n\nc\td", 10, 0)
	if len(got) != 1 || got[0] != "a b c d" {
		t.Errorf("got %#v", got)
	}
}
