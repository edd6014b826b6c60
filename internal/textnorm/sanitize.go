package textnorm

import (
	"regexp"
	"strings"
)

// documentIDPattern keeps word characters, whitespace, and hyphens.
var documentIDPattern = regexp.MustCompile(`[^\w\s-]`)

// DocumentID sanitizes a raw thread identifier for use as a directory name.
func DocumentID(raw string) string {
	return strings.TrimSpace(documentIDPattern.ReplaceAllString(raw, ""))
}
