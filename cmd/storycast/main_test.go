package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storycast/internal/ledger"
)

func TestCLIAssembleRecordsRun(t *testing.T) {
	env := setupCLITestEnv(t)
	stubMediaBinaries(t, env.baseDir)
	docPath := writeDocumentFixture(t, env.baseDir)

	out, stderr, err := runCLI(t, []string{"assemble", docPath}, env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v (stderr: %s)", err, stderr)
	}
	requireContains(t, out, "Assembled document t3_cli99")
	requireContains(t, out, "Total spoken")

	workDir := env.cfg.WorkDir("t3_cli99")
	for _, name := range []string{"background.mp3", "background.mp4"} {
		if _, err := os.Stat(filepath.Join(workDir, name)); err != nil {
			t.Fatalf("expected %s in work dir: %v", name, err)
		}
	}
	mp3Dir := filepath.Join(workDir, "mp3")
	entries, err := os.ReadDir(mp3Dir)
	if err != nil {
		t.Fatalf("read clip dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected title plus 2 comment clips, got %d entries", len(entries))
	}

	store, err := ledger.Open(env.cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer func() { _ = store.Close() }()
	runs, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Status != ledger.StatusCompleted {
		t.Fatalf("run status = %q, want completed (error: %s)", runs[0].Status, runs[0].ErrorMessage)
	}
	if runs[0].DocumentID != "t3_cli99" {
		t.Fatalf("run document = %q", runs[0].DocumentID)
	}
}

func TestCLIAssembleTranslatesWhenConfigured(t *testing.T) {
	env := setupCLITestEnv(t)
	stubMediaBinaries(t, env.baseDir)
	docPath := writeDocumentFixture(t, env.baseDir)

	// The tts stub records each text it is asked to speak.
	spokenLog := filepath.Join(env.baseDir, "spoken.log")
	writeStubBinary(t, env.baseDir, "tts",
		"#!/bin/sh\necho \"$2\" >> "+spokenLog+"\nfor last; do :; done\necho audio > \"$last\"\n")
	translator := writeStubBinary(t, env.baseDir, "translate",
		"#!/bin/sh\necho \"[$1] $2\"\n")

	section := fmt.Sprintf("\n[thread]\npost_lang = \"es\"\ntranslate_command = %q\n", translator)
	appendToFile(t, env.configPath, section)

	_, stderr, err := runCLI(t, []string{"assemble", docPath}, env.configPath)
	if err != nil {
		t.Fatalf("assemble: %v (stderr: %s)", err, stderr)
	}

	spoken, err := os.ReadFile(spokenLog)
	if err != nil {
		t.Fatalf("read spoken log: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(spoken)), "\n") {
		if !strings.HasPrefix(line, "[es] ") {
			t.Fatalf("clip text not translated: %q", line)
		}
	}
}

func TestCLIAssembleMissingDocument(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"assemble", filepath.Join(env.baseDir, "absent.json")}, env.configPath)
	if err == nil {
		t.Fatalf("expected error for missing document")
	}
}

func TestCLIRunsListsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := ledger.Open(env.cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	run, err := store.Begin(context.Background(), "docX", "A title")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := store.Fail(context.Background(), run.ID, "tts missing"); err != nil {
		t.Fatalf("fail run: %v", err)
	}
	_ = store.Close()

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "docX")
	requireContains(t, out, "failed")
	requireContains(t, out, "tts missing")
}

func TestCLIBackgroundsListsCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"backgrounds"}, env.configPath)
	if err != nil {
		t.Fatalf("backgrounds: %v", err)
	}
	requireContains(t, out, "audio backgrounds:")
	requireContains(t, out, "video backgrounds:")
	requireContains(t, out, "minecraft")
	requireContains(t, out, "bbswitzer-parkour.mp4")
}

func TestCLIDepsReportsMissingBinaries(t *testing.T) {
	env := setupCLITestEnv(t)

	// Availability depends on the host, so only check the table renders
	// with the expected rows.
	out, _, _ := runCLI(t, []string{"deps"}, env.configPath)
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "Staging directory")
	requireContains(t, out, "tts")
}
