package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/ports"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "label", "kind", "tail", "alpha", "dof1", "dof2", "statistic", "p_value", "decision", "inputs", "created_at"}

func newMockRepo(t *testing.T) (ports.ResultLedger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResultRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestResultRepository_Store(t *testing.T) {
	repo, mock := newMockRepo(t)
	cfg := stats.TestConfig{Kind: stats.TestT, Tail: stats.TailTwoSided, Alpha: 0.05, DoF1: 4}
	rec := stats.NewRecord("fill", cfg, stats.TestResult{Statistic: -3.01, PValue: 0.039, Decision: stats.DecisionReject}, map[string]any{"n": 5})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO test_results")).
		WithArgs(rec.ID.String(), "fill", "t", "two-sided", 0.05, 4.0, 0.0, -3.01, 0.039, "reject", []byte(`{"n":5}`), rec.CreatedAt.Time()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Store(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_StoreError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO test_results").WillReturnError(errors.New("connection refused"))

	err := repo.Store(context.Background(), stats.NewRecord("", stats.TestConfig{Kind: stats.TestZ}, stats.TestResult{}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResultRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := core.NewID()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM test_results WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "fill", "f", "upper", 0.05, 1.0, 18.0, 162.0, 1e-10, "reject", []byte(`{"k1":1}`), created))

	rec, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, stats.TestF, rec.Config.Kind)
	assert.Equal(t, 18.0, rec.Config.DoF2)
	assert.Equal(t, stats.DecisionReject, rec.Result.Decision)
	assert.Equal(t, 1.0, rec.Inputs["k1"])
	assert.True(t, created.Equal(rec.CreatedAt.Time()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := core.NewID()

	mock.ExpectQuery(`SELECT (.+) FROM test_results WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Get(context.Background(), id)
	assert.True(t, core.IsNotFoundError(err))
	assert.ErrorIs(t, err, core.ErrResultNotFound)
}

func TestResultRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_results WHERE kind = $1 AND decision = $2 ORDER BY created_at DESC LIMIT $3")).
		WithArgs("z", "retain", 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(core.NewID().String(), "b", "z", "two-sided", 0.05, 0.0, 0.0, -1.77, 0.077, "retain", nil, now).
			AddRow(core.NewID().String(), "a", "z", "two-sided", 0.05, 0.0, 0.0, 0.5, 0.62, "retain", []byte(`null`), now.Add(-time.Minute)))

	records, err := repo.List(context.Background(), ports.ResultFilter{Kind: stats.TestZ, Decision: stats.DecisionRetain, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].Label)
	assert.Nil(t, records[0].Inputs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepository_ListDefaultLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_results ORDER BY created_at DESC LIMIT $1")).
		WithArgs(ports.DefaultListLimit).
		WillReturnRows(sqlmock.NewRows(columns))

	records, err := repo.List(context.Background(), ports.ResultFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
