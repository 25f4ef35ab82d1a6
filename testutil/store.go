// Package testutil provides shared helpers for tests that need a real
// file-backed store rather than the in-memory fake.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/bruber/driverlog/internal/storage"
)

// NewBolt opens a bbolt store in a fresh temp directory.
//
// Each call gets its own file, so tests never share state, and the store is
// closed automatically when the test (and all its subtests) finish.
func NewBolt(t *testing.T) *storage.Bolt {
	t.Helper()

	s, err := storage.OpenBolt(filepath.Join(t.TempDir(), "driverlog.db"))
	if err != nil {
		t.Fatalf("testutil.NewBolt: open: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("testutil.NewBolt: close: %v", err)
		}
	})
	return s
}
