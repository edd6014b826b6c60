package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"storycast/internal/config"
)

// Engine is the speech synthesis collaborator. Implementations convert one
// piece of text into one audio file and advertise their per-call character
// limit.
type Engine interface {
	Synthesize(ctx context.Context, text, outputPath string) error
	MaxChars() int
}

// CommandEngine shells out to a configured synthesizer executable. The
// command is invoked as: <command> <voice> <text> <output path>, with the API
// key exported in the environment when one is configured.
type CommandEngine struct {
	command  string
	voice    string
	random   bool
	maxChars int
	apiKey   string
}

// NewCommandEngine builds an engine from TTS configuration.
func NewCommandEngine(cfg config.TTS) (*CommandEngine, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("speech: tts.command is not configured")
	}
	return &CommandEngine{
		command:  cfg.Command,
		voice:    cfg.Voice,
		random:   cfg.RandomVoice,
		maxChars: cfg.MaxChars,
		apiKey:   cfg.APIKey,
	}, nil
}

func (e *CommandEngine) MaxChars() int {
	return e.maxChars
}

func (e *CommandEngine) Synthesize(ctx context.Context, text, outputPath string) error {
	voice := e.voice
	if e.random {
		voice = "random"
	}
	cmd := exec.CommandContext(ctx, e.command, voice, text, outputPath)
	cmd.Env = os.Environ()
	if e.apiKey != "" {
		cmd.Env = append(cmd.Env, "STORYCAST_TTS_API_KEY="+e.apiKey)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("synthesize %s: %w: %s", outputPath, err, strings.TrimSpace(string(output)))
	}
	return nil
}
