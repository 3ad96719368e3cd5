package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/ports"

	"github.com/jmoiron/sqlx"
)

// resultRepository implements ports.ResultLedger on the test_results table
type resultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) ports.ResultLedger {
	return &resultRepository{db: db}
}

// resultRow is the flat database shape of a stats.Record
type resultRow struct {
	ID        string    `db:"id"`
	Label     string    `db:"label"`
	Kind      string    `db:"kind"`
	Tail      string    `db:"tail"`
	Alpha     float64   `db:"alpha"`
	DoF1      float64   `db:"dof1"`
	DoF2      float64   `db:"dof2"`
	Statistic float64   `db:"statistic"`
	PValue    float64   `db:"p_value"`
	Decision  string    `db:"decision"`
	Inputs    []byte    `db:"inputs"`
	CreatedAt time.Time `db:"created_at"`
}

const resultColumns = `id, label, kind, tail, alpha, dof1, dof2, statistic, p_value, decision, inputs, created_at`

// Store inserts a record. Records are immutable; storing an existing id is a no-op.
func (r *resultRepository) Store(ctx context.Context, record stats.Record) error {
	inputsJSON, err := json.Marshal(record.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}

	query := `INSERT INTO test_results (` + resultColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO NOTHING`

	_, err = r.db.ExecContext(ctx, query,
		record.ID.String(), record.Label, string(record.Config.Kind), string(record.Config.Tail),
		record.Config.Alpha, record.Config.DoF1, record.Config.DoF2,
		record.Result.Statistic, record.Result.PValue, string(record.Result.Decision),
		inputsJSON, record.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to store test result: %w", err)
	}
	return nil
}

// Get retrieves a record by id
func (r *resultRepository) Get(ctx context.Context, id core.ID) (*stats.Record, error) {
	query := `SELECT ` + resultColumns + ` FROM test_results WHERE id = $1`

	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewResultNotFoundError(id.String())
		}
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}

	record, err := row.toRecord()
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns records newest first
func (r *resultRepository) List(ctx context.Context, filter ports.ResultFilter) ([]stats.Record, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Decision != "" {
		args = append(args, string(filter.Decision))
		where = append(where, fmt.Sprintf("decision = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = ports.DefaultListLimit
	}
	args = append(args, limit)

	query := `SELECT ` + resultColumns + ` FROM test_results`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}

	records := make([]stats.Record, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (row resultRow) toRecord() (stats.Record, error) {
	record := stats.Record{
		ID:    core.ID(row.ID),
		Label: row.Label,
		Config: stats.TestConfig{
			Kind:  stats.TestKind(row.Kind),
			Tail:  stats.TailMode(row.Tail),
			Alpha: row.Alpha,
			DoF1:  row.DoF1,
			DoF2:  row.DoF2,
		},
		Result: stats.TestResult{
			Statistic: row.Statistic,
			PValue:    row.PValue,
			Decision:  stats.Decision(row.Decision),
		},
		CreatedAt: core.NewTimestamp(row.CreatedAt.UTC()),
	}
	if len(row.Inputs) > 0 {
		if err := json.Unmarshal(row.Inputs, &record.Inputs); err != nil {
			return stats.Record{}, fmt.Errorf("failed to unmarshal inputs: %w", err)
		}
	}
	return record, nil
}
