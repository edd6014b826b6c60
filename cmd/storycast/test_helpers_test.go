package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storycast/internal/config"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.BackgroundsDir = filepath.Join(base, "backgrounds")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "ledger.db")
	cfgVal.TTS.Command = writeStubBinary(t, base, "tts",
		"#!/bin/sh\nfor last; do :; done\necho audio > \"$last\"\n")

	cfg := &cfgVal
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

// stubMediaBinaries places fake ffmpeg and ffprobe executables on PATH. The
// ffprobe stub reports a long duration for files under a video directory and
// a short one otherwise.
func stubMediaBinaries(t *testing.T, baseDir string) {
	t.Helper()

	binDir := filepath.Join(baseDir, "bin")
	writeStubBinary(t, binDir, "ffmpeg",
		"#!/bin/sh\nfor last; do :; done\necho data > \"$last\"\n")
	writeStubBinary(t, binDir, "ffprobe",
		"#!/bin/sh\ncase \"$*\" in\n  */video/*) echo '{\"format\":{\"duration\":\"500.0\"}}';;\n  *) echo '{\"format\":{\"duration\":\"3.0\"}}';;\nesac\n")

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() { _ = os.Setenv("PATH", oldPath) })
}

func writeStubBinary(t *testing.T, dir, name, script string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
staging_dir = %q
backgrounds_dir = %q
log_dir = %q
ledger_path = %q

[tts]
command = %q

[logging]
format = "json"
`,
		cfg.Paths.StagingDir,
		cfg.Paths.BackgroundsDir,
		cfg.Paths.LogDir,
		cfg.Paths.LedgerPath,
		cfg.TTS.Command,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
}

func appendToFile(t *testing.T, path, content string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append to %s: %v", path, err)
	}
}

func writeDocumentFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "document.json")
	contents := `{
  "thread_id": "t3_cli99",
  "thread_title": "A CLI test story",
  "thread_url": "https://example.com/t3_cli99",
  "comments": [
    {"comment_id": "c1", "comment_body": "First comment body.", "comment_url": ""},
    {"comment_id": "c2", "comment_body": "Second comment body.", "comment_url": ""}
  ]
}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write document fixture: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
