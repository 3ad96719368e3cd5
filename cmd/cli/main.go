package main

import (
	"fmt"
	"os"

	"hypotest/app"
	"hypotest/internal"
	"hypotest/internal/config"
	"hypotest/internal/container"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// options are shared by every subcommand
type options struct {
	alpha  float64
	tail   string
	format string
	file   string
	sheet  string

	container *container.Container
	service   *app.HypothesisService
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "hypotest",
		Short:         "Run Z, t, chi-squared and F hypothesis tests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.container == nil {
				return nil
			}
			return opts.container.Shutdown(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Float64Var(&opts.alpha, "alpha", 0, "Significance level in (0,1) (default DEFAULT_ALPHA)")
	flags.StringVar(&opts.tail, "tail", "", "Tail mode: two-sided|upper|lower (default DEFAULT_TAIL)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text|json|markdown")
	flags.StringVar(&opts.file, "file", "", "CSV or XLSX file to read columns from (default DATA_FILE)")
	flags.StringVar(&opts.sheet, "sheet", "", "Worksheet name for XLSX files (default first sheet)")

	rootCmd.AddCommand(
		newZTestCmd(opts),
		newTTestCmd(opts),
		newChi2Cmd(opts),
		newFTestCmd(opts),
		newCompareCmd(opts),
		newBatchCmd(opts),
		newCriticalCmd(opts),
	)

	return rootCmd
}

// init builds the service from environment configuration. Results go to
// Postgres when DATABASE_URL is set and stay in memory otherwise.
func (o *options) init(cmd *cobra.Command) error {
	switch o.format {
	case formatText, formatJSON, formatMarkdown:
	default:
		return fmt.Errorf("unknown format %q: use text, json or markdown", o.format)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.file == "" {
		o.file = cfg.Data.File
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), "console")
	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Connect(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	o.container = c
	o.service = c.Service
	return nil
}
