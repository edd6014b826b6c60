package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"storycast/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.BackgroundsDir = filepath.Join(root, "backgrounds")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.LedgerPath = filepath.Join(root, "ledger.db")

	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginAndComplete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.Begin(ctx, "abc123", "A story title")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if run.ID == "" {
		t.Fatalf("expected generated run ID")
	}
	if run.Status != StatusRunning {
		t.Fatalf("status = %q, want running", run.Status)
	}
	if run.LastIndex != -1 {
		t.Fatalf("last index = %d, want -1", run.LastIndex)
	}

	if err := store.Complete(ctx, run.ID, 48.5, 7, 5); err != nil {
		t.Fatalf("complete run: %v", err)
	}
	updated, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", updated.Status)
	}
	if updated.TotalSeconds != 48.5 || updated.ClipCount != 7 || updated.LastIndex != 5 {
		t.Fatalf("unexpected totals: %+v", updated)
	}
	if updated.CreatedAt.IsZero() || updated.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not recorded")
	}
}

func TestFailRecordsMessage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.Begin(ctx, "abc123", "title")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := store.Fail(ctx, run.ID, "video source too short"); err != nil {
		t.Fatalf("fail run: %v", err)
	}

	updated, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if updated.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", updated.Status)
	}
	if updated.ErrorMessage != "video source too short" {
		t.Fatalf("error message = %q", updated.ErrorMessage)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUnknownRun(t *testing.T) {
	store := newTestStore(t)
	if err := store.Complete(context.Background(), "missing", 1, 1, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Begin(ctx, "doc1", "first")
	if err != nil {
		t.Fatalf("begin first: %v", err)
	}
	second, err := store.Begin(ctx, "doc2", "second")
	if err != nil {
		t.Fatalf("begin second: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Fatalf("runs not newest first: %s then %s", runs[0].ID, runs[1].ID)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatalf("limit not applied")
	}
}
