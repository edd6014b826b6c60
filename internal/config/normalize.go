package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTTS()
	c.normalizeThread()
	if err := c.normalizeBackground(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackgroundsDir) == "" {
		c.Paths.BackgroundsDir = defaultBackgroundsDir
	}
	if c.Paths.BackgroundsDir, err = expandPath(c.Paths.BackgroundsDir); err != nil {
		return fmt.Errorf("paths.backgrounds_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.Command = strings.TrimSpace(c.TTS.Command)
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.Voice == "" {
		c.TTS.Voice = defaultVoice
	}
	if c.TTS.MaxChars <= 0 {
		c.TTS.MaxChars = defaultMaxChars
	}
	if c.TTS.SilenceSeconds <= 0 {
		c.TTS.SilenceSeconds = defaultSilenceSeconds
	}
	if c.TTS.APIKey == "" {
		if value, ok := os.LookupEnv("STORYCAST_TTS_API_KEY"); ok {
			c.TTS.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeThread() {
	c.Thread.PostLang = strings.TrimSpace(c.Thread.PostLang)
	c.Thread.TranslateCommand = strings.TrimSpace(c.Thread.TranslateCommand)
	if c.Thread.MaxTotalSeconds <= 0 {
		c.Thread.MaxTotalSeconds = defaultMaxTotalSeconds
	}
}

func (c *Config) normalizeBackground() error {
	c.Background.AudioName = strings.ToLower(strings.TrimSpace(c.Background.AudioName))
	c.Background.VideoName = strings.ToLower(strings.TrimSpace(c.Background.VideoName))
	if strings.TrimSpace(c.Background.CatalogPath) != "" {
		expanded, err := expandPath(c.Background.CatalogPath)
		if err != nil {
			return fmt.Errorf("background.catalog_path: %w", err)
		}
		c.Background.CatalogPath = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
