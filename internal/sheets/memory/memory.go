// Package memory is an in-process export sink. It stands in for the Google
// Sheets backend in development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"spendlog/internal/core"
	ports "spendlog/internal/sheets"
)

type Sink struct {
	mu    sync.Mutex
	items []core.Expense
}

var _ ports.Exporter = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Sink) Append(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Exported returns a copy of everything appended so far.
func (s *Sink) Exported() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}
