package memory

import (
	"context"
	"fmt"
	"sync"

	"earnings/internal/sheets"
)

// Store keeps the last written rows in memory. It stands in for a real
// spreadsheet in dry runs and tests.
type Store struct {
	mu     sync.Mutex
	rows   []sheets.Row
	writes int
}

var _ sheets.EarningsWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) ReplaceEarnings(_ context.Context, rows []sheets.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]sheets.Row(nil), rows...)
	s.writes++
	return fmt.Sprintf("mem:%d", len(rows)), nil
}

// Rows returns a copy of the last written rows.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Row(nil), s.rows...)
}

// Writes counts ReplaceEarnings calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
