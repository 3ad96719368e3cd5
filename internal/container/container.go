package container

import (
	"context"
	"fmt"

	"hypotest/adapters/postgres"
	"hypotest/adapters/stats/distributions"
	"hypotest/app"
	"hypotest/domain/stats"
	"hypotest/internal"
	"hypotest/internal/config"
	"hypotest/internal/errors"
	"hypotest/internal/hypothesis"
	"hypotest/internal/metrics"
	"hypotest/internal/migration"
	"hypotest/internal/testkit"
	"hypotest/ports"

	"github.com/jmoiron/sqlx"
)

// MetricsNamespace prefixes every exported metric
const MetricsNamespace = "hypotest"

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Logger  *internal.Logger
	Metrics *metrics.Collector

	// Evaluation core
	Provider   ports.DistributionProvider
	Procedures *hypothesis.Procedures

	// Storage
	Ledger ports.ResultLedger

	// Application services
	Service *app.HypothesisService
}

// New creates a container backed by the in-memory ledger. Call
// InitWithDatabase to switch to Postgres.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.NewCollector(MetricsNamespace),
		Provider: distributions.NewGonumProvider(),
		Ledger:   testkit.NewInMemoryLedger(),
	}
	c.Procedures = hypothesis.NewProcedures(hypothesis.NewEvaluator(c.Provider))
	c.buildService()

	return c, nil
}

// InitWithDatabase migrates the schema and moves the ledger to Postgres
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("database connection test failed: %w", err))
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}

	c.DB = db
	c.Ledger = postgres.NewResultRepository(db)
	c.buildService()

	c.Logger.Info("result ledger: postgres (schema %s)", migrator.Version())
	return nil
}

// Connect opens the configured database, if any, and initialises the
// container with it
func (c *Container) Connect(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("result ledger: in-memory (DATABASE_URL not set)")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to connect to database: %w", err))
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

func (c *Container) buildService() {
	c.Service = app.NewHypothesisService(c.Procedures, c.Ledger, c.Metrics, c.Logger, app.Defaults{
		Alpha:        c.Config.Evaluation.DefaultAlpha,
		Tail:         stats.TailMode(c.Config.Evaluation.DefaultTail),
		BatchWorkers: c.Config.Evaluation.BatchWorkers,
	})
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	_ = c.Logger.Sync()

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
