package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"ledger/internal/config"

	"github.com/charmbracelet/log"
)

func TestOpenFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	backend, closeFn, err := Open(context.Background(), config.Config{StoreBackend: config.BackendFile, DataFile: path}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	fileStore, ok := backend.(*FileStore)
	if !ok || fileStore.Path() != path {
		t.Fatalf("expected file store at %s, got %#v", path, backend)
	}
}

func TestOpenMemoryBackend(t *testing.T) {
	backend, closeFn, err := Open(context.Background(), config.Config{StoreBackend: config.BackendMemory}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := backend.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %#v", backend)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, closeFn, err := Open(context.Background(), config.Config{StoreBackend: "redis"}, log.New(io.Discard))
	if err == nil {
		t.Fatalf("expected error")
	}
	if closeFn == nil {
		t.Fatalf("close func must never be nil")
	}
}
