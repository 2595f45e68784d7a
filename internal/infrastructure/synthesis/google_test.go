package synthesis

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSynthesize_RejectsBlankText(t *testing.T) {
	// Long whitespace-only input would otherwise split into zero chunks
	// and return an empty payload without ever hitting the endpoint.
	c := NewClient(0)
	for _, text := range []string{"", "   ", strings.Repeat(" ", 300)} {
		if _, err := c.Synthesize(context.Background(), text, "en"); err == nil {
			t.Fatalf("expected error for blank text %q", text)
		}
	}
}

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	chunks := splitChunks("hello world", 200)
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("unexpected chunks: %#v", chunks)
	}
}

func TestSplitChunks_CutsOnWhitespace(t *testing.T) {
	text := strings.Repeat("palabra ", 50) // 400 runes including spaces
	chunks := splitChunks(text, 40)

	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 40 {
			t.Fatalf("chunk %d has %d runes: %q", i, n, chunk)
		}
		if strings.HasPrefix(chunk, " ") || strings.HasSuffix(chunk, " ") {
			t.Fatalf("chunk %d has edge whitespace: %q", i, chunk)
		}
	}

	rejoined := strings.Join(chunks, " ")
	if rejoined != strings.TrimSpace(text) {
		t.Fatalf("chunks lost content:\n%q\n%q", rejoined, strings.TrimSpace(text))
	}
}

func TestSplitChunks_HardCutsLongWord(t *testing.T) {
	word := strings.Repeat("a", 95)
	chunks := splitChunks(word, 40)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %#v", len(chunks), chunks)
	}
	if strings.Join(chunks, "") != word {
		t.Fatalf("hard cut lost content: %#v", chunks)
	}
}

func TestSplitChunks_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("こんにちは ", 20)
	chunks := splitChunks(text, 12)

	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > 12 {
			t.Fatalf("chunk %d has %d runes", i, n)
		}
		if !utf8.ValidString(chunk) {
			t.Fatalf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
	}
}
