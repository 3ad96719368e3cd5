package testkit

import (
	"context"
	"sync"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/ports"
)

// InMemoryLedger implements ports.ResultLedger with in-memory storage.
// It backs the server when no database is configured and every test that
// needs a ledger.
type InMemoryLedger struct {
	records map[core.ID]stats.Record
	order   []core.ID
	mu      sync.RWMutex
}

var _ ports.ResultLedger = (*InMemoryLedger)(nil)

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		records: make(map[core.ID]stats.Record),
	}
}

// Store appends a record. Storing an id that is already present is a no-op.
func (s *InMemoryLedger) Store(ctx context.Context, record stats.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.ID.IsEmpty() {
		return core.NewInvalidParameterError("id", "", "record id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// records are immutable; a repeated id keeps the first version
	if _, exists := s.records[record.ID]; exists {
		return nil
	}
	s.order = append(s.order, record.ID)
	s.records[record.ID] = record
	return nil
}

func (s *InMemoryLedger) Get(ctx context.Context, id core.ID) (*stats.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[id]
	if !exists {
		return nil, core.NewResultNotFoundError(id.String())
	}
	return &record, nil
}

// List returns matching records newest first
func (s *InMemoryLedger) List(ctx context.Context, filter ports.ResultFilter) ([]stats.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = ports.DefaultListLimit
	}

	results := make([]stats.Record, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		record := s.records[s.order[i]]
		if filter.Kind != "" && record.Config.Kind != filter.Kind {
			continue
		}
		if filter.Decision != "" && record.Result.Decision != filter.Decision {
			continue
		}
		results = append(results, record)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Len returns the number of stored records
func (s *InMemoryLedger) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
