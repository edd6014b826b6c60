package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir     string `toml:"staging_dir"`
	BackgroundsDir string `toml:"backgrounds_dir"`
	LogDir         string `toml:"log_dir"`
	LedgerPath     string `toml:"ledger_path"`
}

// TTS contains configuration for the speech synthesis engine.
type TTS struct {
	// Command is the synthesizer executable invoked per clip. It receives
	// the voice, the text, and the output path as positional arguments.
	Command        string  `toml:"command"`
	Voice          string  `toml:"voice"`
	RandomVoice    bool    `toml:"random_voice"`
	MaxChars       int     `toml:"max_chars"`
	SilenceSeconds float64 `toml:"silence_seconds"`
	APIKey         string  `toml:"api_key"`
}

// Story contains the story-mode switches.
type Story struct {
	Enabled bool `toml:"enabled"`
	Method  int  `toml:"method"`
}

// Thread contains per-document processing settings.
type Thread struct {
	// PostLang, when set, is the BCP 47 tag unit text is translated into
	// before synthesis. Empty disables translation.
	PostLang string `toml:"post_lang"`
	// TranslateCommand is the executable invoked as
	// `<command> <lang> <text>`; the translated text is read from stdout.
	TranslateCommand string  `toml:"translate_command"`
	MaxTotalSeconds  float64 `toml:"max_total_seconds"`
}

// Background selects the background sources and their treatment.
type Background struct {
	AudioName   string  `toml:"audio_name"`
	VideoName   string  `toml:"video_name"`
	AudioVolume float64 `toml:"audio_volume"`
	CatalogPath string  `toml:"catalog_path"`
}

// Ledger contains configuration for the run history store.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for storycast.
//
// Sections by subsystem:
//   - Paths: staging/backgrounds/log directories and ledger location
//   - TTS: synthesizer command, voice, per-call character limit, silence gap
//   - Story: story mode and sub-method
//   - Thread: spoken-duration budget and translation target
//   - Background: catalog selection and audio volume
//   - Ledger: run history persistence
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	TTS        TTS        `toml:"tts"`
	Story      Story      `toml:"story"`
	Thread     Thread     `toml:"thread"`
	Background Background `toml:"background"`
	Ledger     Ledger     `toml:"ledger"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/storycast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("storycast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.BackgroundsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Ledger.Enabled {
		if dir := filepath.Dir(c.Paths.LedgerPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create ledger directory %q: %w", dir, err)
			}
		}
	}
	return nil
}

// WorkDir returns the per-document working directory under the staging root.
func (c *Config) WorkDir(documentID string) string {
	return filepath.Join(c.Paths.StagingDir, documentID)
}

// FFmpegBinary returns the ffmpeg executable name used for extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
