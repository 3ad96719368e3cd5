package ports

import (
	"context"

	"hypotest/domain/core"
	"hypotest/domain/stats"
)

// ResultLedgerWriter provides append-only write access to evaluation records
type ResultLedgerWriter interface {
	Store(ctx context.Context, record stats.Record) error
}

// ResultLedgerReader provides read-only access to stored records.
// Get returns core.ErrResultNotFound for unknown ids.
type ResultLedgerReader interface {
	Get(ctx context.Context, id core.ID) (*stats.Record, error)
	List(ctx context.Context, filter ResultFilter) ([]stats.Record, error)
}

// ResultFilter narrows List queries. Zero values match everything.
type ResultFilter struct {
	Kind     stats.TestKind
	Decision stats.Decision
	Limit    int
}

// ResultLedger combines read and write access
type ResultLedger interface {
	ResultLedgerWriter
	ResultLedgerReader
}

// DefaultListLimit caps List queries that do not set a limit
const DefaultListLimit = 100
