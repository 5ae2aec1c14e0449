package hooks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRunEmptyCommandIsNoop(t *testing.T) {
	if err := Run(context.Background(), "", nil, time.Second); err != nil {
		t.Errorf("Run() with empty command error = %v", err)
	}
}

func TestRunSucceeds(t *testing.T) {
	if err := Run(context.Background(), "true", nil, time.Second); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRunFailingCommandReturnsError(t *testing.T) {
	if err := Run(context.Background(), "exit 1", nil, time.Second); err == nil {
		t.Error("Run() error = nil, want error for failing command")
	}
}

func TestWriteMeterFileCreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()

	if err := WriteMeterFile(dir, "kitchen", []byte("first")); err != nil {
		t.Fatalf("WriteMeterFile() error = %v", err)
	}
	if err := WriteMeterFile(dir, "kitchen", []byte("second")); err != nil {
		t.Fatalf("WriteMeterFile() (overwrite) error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "kitchen"))
	if err != nil {
		t.Fatalf("os.ReadFile() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("meter file contents = %q, want %q", got, "second")
	}
}
