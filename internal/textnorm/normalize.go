package textnorm

import (
	"regexp"
	"strings"
)

// urlPattern matches bare and schemed URLs. It intentionally over-matches
// host-like tokens (e.g. "example.com/path") because spoken URLs are noise
// regardless of scheme.
var urlPattern = regexp.MustCompile(`((http|https)://)?[a-zA-Z0-9./?:@\-_=#]+\.[a-zA-Z]{2,6}[a-zA-Z0-9.&/?:@\-_=#]*`)

var (
	aiPattern        = regexp.MustCompile(`\bAI\b`)
	agiPattern       = regexp.MustCompile(`\bAGI\b`)
	quotedDotPattern = regexp.MustCompile(`\."\.`)
)

// Normalize prepares raw unit text for synthesis. The passes run in a fixed
// order; later passes assume earlier ones already ran. Normalizing already
// normalized text is a no-op.
func Normalize(text string) string {
	text = urlPattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\n", ". ")
	text = aiPattern.ReplaceAllString(text, "A.I")
	text = agiPattern.ReplaceAllString(text, "A.G.I")
	if text != "" && !strings.HasSuffix(text, ".") {
		text += "."
	}
	text = strings.ReplaceAll(text, ". . .", ".")
	text = strings.ReplaceAll(text, ".. . ", ".")
	text = strings.ReplaceAll(text, ". . ", ".")
	text = quotedDotPattern.ReplaceAllString(text, `".`)
	return text
}

// IsBlank reports whether text is empty or whitespace-only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
