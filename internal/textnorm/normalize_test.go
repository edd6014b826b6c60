package textnorm_test

import (
	"strings"
	"testing"

	"storycast/internal/textnorm"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing period added", "no punctuation here", "no punctuation here."},
		{"existing period kept", "already done.", "already done."},
		{"newlines become periods", "first line\nsecond line.", "first line. second line."},
		{"url stripped", "see https://example.com/page for more.", "see   for more."},
		{"bare host stripped", "visit example.com today", "visit   today."},
		{"ai expanded", "AI will change everything.", "A.I will change everything."},
		{"agi expanded", "AGI is further out.", "A.G.I is further out."},
		{"ai inside word untouched", "TRAIN stays.", "TRAIN stays."},
		{"lowercase ai untouched", "ai stays.", "ai stays."},
		{"dot space dot space collapsed", "odd. . spacing.", "odd.spacing."},
		{"quoted period fixed", `he said "stop.".`, `he said "stop".`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := textnorm.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain sentence",
		"first\nsecond",
		"AI and AGI everywhere",
		"with a link http://example.com/x in it",
		"trailing spaces   ",
	}
	for _, in := range inputs {
		once := textnorm.Normalize(in)
		twice := textnorm.Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := textnorm.Normalize(""); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
}

func TestChunkRespectsLimit(t *testing.T) {
	// 2800 characters of short sentences with max 500 yields six chunks.
	sentence := strings.Repeat("x", 99) + "."
	text := strings.Repeat(sentence, 28)
	chunks := textnorm.Chunk(text, 500)

	if len(chunks) != 6 {
		t.Fatalf("expected 6 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 501 {
			t.Fatalf("chunk %d exceeds limit: %d chars", i, len(chunk))
		}
		if textnorm.IsBlank(chunk) {
			t.Fatalf("chunk %d is blank", i)
		}
	}
}

func TestChunkPrefersSentenceBreaks(t *testing.T) {
	chunks := textnorm.Chunk("one. two. three.", 10)
	want := []string{"one. two.", "three."}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %q, want %q", chunks, want)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestChunkBlankInput(t *testing.T) {
	if got := textnorm.Chunk("   ", 100); got != nil {
		t.Fatalf("expected nil for blank input, got %q", got)
	}
}

func TestDocumentID(t *testing.T) {
	cases := map[string]string{
		"abc123":        "abc123",
		"a/b\\c:d*e?f":  "abcdef",
		"keep-hyphen_1": "keep-hyphen_1",
		"  spaced id  ": "spaced id",
	}
	for in, want := range cases {
		if got := textnorm.DocumentID(in); got != want {
			t.Fatalf("DocumentID(%q) = %q, want %q", in, got, want)
		}
	}
}
