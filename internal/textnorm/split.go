package textnorm

import (
	"fmt"
	"regexp"
	"strings"
)

// Chunk splits text into pieces of at most maxChars characters, preferring to
// break after sentence-ending periods. A chunk is any run of up to maxChars
// characters terminated by a period or by the end of the text. Leading and
// trailing whitespace is trimmed from every chunk; blank chunks are dropped.
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 || IsBlank(text) {
		return nil
	}
	if maxChars > 1000 {
		// regexp counted repetition caps at 1000.
		maxChars = 1000
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`(?s) *(.{0,%d})(\.|.$)`, maxChars))
	matches := pattern.FindAllString(text, -1)

	chunks := make([]string, 0, len(matches))
	for _, match := range matches {
		chunk := strings.TrimSpace(match)
		if chunk == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}
