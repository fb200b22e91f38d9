package app

import (
	"context"
	"testing"

	"github.com/koopa0/docqa/internal/log"
)

func TestClose_Empty(t *testing.T) {
	// Close must be safe on a partially initialized App; Setup relies on
	// this for cleanup when a later provide step fails.
	a := &App{}
	if err := a.Close(); err != nil {
		t.Errorf("Close() on empty app = %v", err)
	}
}

func TestClose_CancelsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{Logger: log.NewNop(), cancel: cancel}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	select {
	case <-ctx.Done():
	default:
		t.Error("Close must cancel the application context")
	}
}
