package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// NewCommandTranslator returns a TranslateFunc that shells out to a
// translator executable. The command is invoked as: <command> <lang> <text>,
// and the translated text is read from stdout. Empty output is an error so a
// broken translator never silently blanks a clip.
func NewCommandTranslator(command, lang string) TranslateFunc {
	return func(ctx context.Context, text string) (string, error) {
		cmd := exec.CommandContext(ctx, command, lang, text)
		var stderr strings.Builder
		cmd.Stderr = &stderr
		output, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("translate to %s: %w: %s", lang, err, strings.TrimSpace(stderr.String()))
		}
		translated := strings.TrimSpace(string(output))
		if translated == "" {
			return "", fmt.Errorf("translate to %s: command %s produced no output", lang, command)
		}
		return translated, nil
	}
}
