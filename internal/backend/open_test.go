package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"orange/internal/config"
)

func TestOpen_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir, Secrets: config.Secrets{Backend: config.BackendSQLite}}

	svc, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer svc.Close()

	tasks, err := svc.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty store, got %d tasks", len(tasks))
	}
	if cfg.SQLitePath() != filepath.Join(dir, config.DBFile) {
		t.Errorf("unexpected db path %q", cfg.SQLitePath())
	}
}

func TestOpen_GoogleTasksNotLoggedIn(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Secrets: config.Secrets{Backend: config.BackendGoogleTasks}}

	_, err := Open(context.Background(), cfg)
	if !errors.Is(err, config.ErrConfigUnreadable) {
		t.Errorf("expected ErrConfigUnreadable, got %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Secrets: config.Secrets{Backend: "redis"}}

	_, err := Open(context.Background(), cfg)
	if !errors.Is(err, config.ErrConfigUnreadable) {
		t.Errorf("expected ErrConfigUnreadable, got %v", err)
	}
}
