package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateThread(); err != nil {
		return err
	}
	if err := c.validateStory(); err != nil {
		return err
	}
	if err := c.validateBackground(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.MaxChars <= 0 {
		return errors.New("tts.max_chars must be positive")
	}
	if c.TTS.SilenceSeconds <= 0 {
		return errors.New("tts.silence_seconds must be positive")
	}
	return nil
}

func (c *Config) validateThread() error {
	if c.Thread.MaxTotalSeconds <= 0 {
		return errors.New("thread.max_total_seconds must be positive")
	}
	if lang := strings.TrimSpace(c.Thread.PostLang); lang != "" {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("thread.post_lang: unrecognized language tag %q: %w", lang, err)
		}
	}
	return nil
}

func (c *Config) validateStory() error {
	if c.Story.Method != 0 && c.Story.Method != 1 {
		return fmt.Errorf("story.method must be 0 or 1, got %d", c.Story.Method)
	}
	return nil
}

func (c *Config) validateBackground() error {
	if c.Background.AudioVolume < 0 || c.Background.AudioVolume > 1 {
		return errors.New("background.audio_volume must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
