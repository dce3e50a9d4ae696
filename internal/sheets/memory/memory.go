// Package memory is an in-process SnapshotExporter for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"xpdash/internal/core"
	"xpdash/internal/sheets"
)

var _ sheets.SnapshotExporter = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	rows [][]any
}

func New() *Store {
	return &Store{}
}

// Export records the snapshot row and returns a synthetic row reference.
func (s *Store) Export(_ context.Context, snap core.Snapshot) (string, error) {
	if err := snap.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, sheets.Row(snap))
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of every exported row in order.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
