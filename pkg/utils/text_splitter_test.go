package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "short text" {
		t.Errorf("expected input returned verbatim, got %q", chunks[0])
	}
}

func TestSplitTextChunkingAndOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > 40 {
			t.Errorf("chunk %d exceeds chunk size: %d", i, len(c))
		}
	}

	// Consecutive chunks share the overlap window
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-10:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not start with previous chunk's tail", i)
		}
	}
}

func TestSplitTextCoversFullInput(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 30, 5)

	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("last chunk is not a suffix of the input")
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total < len(text) {
		t.Errorf("chunks cover %d characters, input has %d", total, len(text))
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("y", 50)
	chunks := SplitText(text, 10, 15)

	if len(chunks) != 5 {
		t.Fatalf("expected 5 non-overlapping chunks, got %d", len(chunks))
	}
}
