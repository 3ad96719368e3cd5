package main

import (
	"fmt"
	"os"

	"hypotest/adapters/excel"
	"hypotest/app"
	"hypotest/domain/stats"
	"hypotest/ports"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newZTestCmd(opts *options) *cobra.Command {
	var values []float64
	var column, label string
	var mu, sigma, sampleMean, sigmaMu float64

	cmd := &cobra.Command{
		Use:   "ztest",
		Short: "Z test of a sample or a summary mean against a known mean",
		Long: `Z test with known population spread.

Either pass a sample (--values or --file/--column) with --sigma, the population
standard deviation, or a precomputed --sample-mean with --sigma-mu, the standard
error of that mean.

Example: hypotest ztest --sample-mean 1054.7 --mu 1060 --sigma-mu 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(stats.TestZ, label)
			req.Mu = mu
			if len(values) > 0 || column != "" {
				sample, err := opts.sample(values, column)
				if err != nil {
					return err
				}
				req.Sample, req.Sigma = sample, sigma
			} else {
				req.SampleMean, req.SigmaMu = sampleMean, sigmaMu
			}
			return opts.run(cmd, req)
		},
	}

	cmd.Flags().Float64SliceVar(&values, "values", nil, "Comma-separated sample values")
	cmd.Flags().StringVar(&column, "column", "", "Column to read the sample from")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the result")
	cmd.Flags().Float64Var(&mu, "mu", 0, "Hypothesised mean")
	cmd.Flags().Float64Var(&sigma, "sigma", 0, "Known population standard deviation (with a sample)")
	cmd.Flags().Float64Var(&sampleMean, "sample-mean", 0, "Observed mean (without a sample)")
	cmd.Flags().Float64Var(&sigmaMu, "sigma-mu", 0, "Standard error of the observed mean (without a sample)")
	return cmd
}

func newTTestCmd(opts *options) *cobra.Command {
	var values []float64
	var column, label string
	var mu float64

	cmd := &cobra.Command{
		Use:   "ttest",
		Short: "One-sample t test of a sample mean against a hypothesised mean",
		Long: `One-sample Student t test with n-1 degrees of freedom.

Example: hypotest ttest --values 1035,1050,1020,1055,1046 --mu 1060`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample, err := opts.sample(values, column)
			if err != nil {
				return err
			}
			req := opts.request(stats.TestT, label)
			req.Sample, req.Mu = sample, mu
			return opts.run(cmd, req)
		},
	}

	cmd.Flags().Float64SliceVar(&values, "values", nil, "Comma-separated sample values")
	cmd.Flags().StringVar(&column, "column", "", "Column to read the sample from")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the result")
	cmd.Flags().Float64Var(&mu, "mu", 0, "Hypothesised mean")
	return cmd
}

func newChi2Cmd(opts *options) *cobra.Command {
	var observed, expected, errs []float64
	var observedCol, expectedCol, errorsCol, label string

	cmd := &cobra.Command{
		Use:   "chi2",
		Short: "Chi-squared goodness-of-fit test",
		Long: `Chi-squared goodness of fit with n-1 degrees of freedom, one-tailed upper.

Each bin needs an observed value, an expected value and a positive uncertainty,
given inline or as columns of --file.

Example: hypotest chi2 --observed 12,9,14 --expected 10,10,10 --errors 3,3,3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if observed, err = opts.sample(observed, observedCol); err != nil {
				return err
			}
			if expected, err = opts.sample(expected, expectedCol); err != nil {
				return err
			}
			if errs, err = opts.sample(errs, errorsCol); err != nil {
				return err
			}
			req := opts.request(stats.TestChi2, label)
			req.Observed, req.Expected, req.Errors = observed, expected, errs
			return opts.run(cmd, req)
		},
	}

	cmd.Flags().Float64SliceVar(&observed, "observed", nil, "Observed values")
	cmd.Flags().Float64SliceVar(&expected, "expected", nil, "Expected values")
	cmd.Flags().Float64SliceVar(&errs, "errors", nil, "Uncertainty of each observed value")
	cmd.Flags().StringVar(&observedCol, "observed-column", "", "Column holding observed values")
	cmd.Flags().StringVar(&expectedCol, "expected-column", "", "Column holding expected values")
	cmd.Flags().StringVar(&errorsCol, "errors-column", "", "Column holding uncertainties")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the result")
	return cmd
}

func newFTestCmd(opts *options) *cobra.Command {
	var ssr1, ssr2 float64
	var k1, k2, n int
	var label string

	cmd := &cobra.Command{
		Use:   "ftest",
		Short: "F test between two nested least-squares fits",
		Long: `F test of whether the richer of two nested fits explains significantly
more than the simpler one. k1 and k2 are the parameter counts.

Example: hypotest ftest --ssr1 100 --ssr2 10 --k1 1 --k2 2 --n 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := opts.request(stats.TestF, label)
			req.SSR1, req.SSR2 = ssr1, ssr2
			req.DoF1, req.DoF2 = k1, k2
			req.NTotal = n
			return opts.run(cmd, req)
		},
	}

	cmd.Flags().Float64Var(&ssr1, "ssr1", 0, "Residual sum of squares of the simpler fit")
	cmd.Flags().Float64Var(&ssr2, "ssr2", 0, "Residual sum of squares of the richer fit")
	cmd.Flags().IntVar(&k1, "k1", 0, "Parameter count of the simpler fit")
	cmd.Flags().IntVar(&k2, "k2", 0, "Parameter count of the richer fit")
	cmd.Flags().IntVar(&n, "n", 0, "Number of data points")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	var x, y []float64
	var xCol, yCol, label, family string
	var maxDegree int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Select the simplest adequate model of a nested family with successive F tests",
		Long: `Fit a nested model family and walk it with F tests, stopping at the first
richer model that does not improve significantly.

Families:
  polynomial   degree 0 through --max-degree (default)
  exponential  constant, a·e^(bx), a·e^(bx)+c

Example: hypotest compare --file readings.csv --x-column t --y-column v --max-degree 3
         hypotest compare --family exponential --x 0,1,2,3,4 --y 2.1,4.0,8.2,15.9,32.3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if x, err = opts.sample(x, xCol); err != nil {
				return err
			}
			if y, err = opts.sample(y, yCol); err != nil {
				return err
			}
			resp, err := opts.service.CompareModels(cmd.Context(), app.ComparisonRequest{
				Label:     label,
				Family:    family,
				X:         x,
				Y:         y,
				MaxDegree: maxDegree,
				Alpha:     opts.alpha,
			})
			if err != nil {
				return err
			}
			return opts.printComparison(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().Float64SliceVar(&x, "x", nil, "Independent variable values")
	cmd.Flags().Float64SliceVar(&y, "y", nil, "Dependent variable values")
	cmd.Flags().StringVar(&xCol, "x-column", "", "Column holding x")
	cmd.Flags().StringVar(&yCol, "y-column", "", "Column holding y")
	cmd.Flags().StringVar(&family, "family", "polynomial", "Model family: polynomial or exponential")
	cmd.Flags().IntVar(&maxDegree, "max-degree", 3, "Highest polynomial degree to fit")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with each F-test result")
	return cmd
}

// batchFile is the YAML layout accepted by the batch command
type batchFile struct {
	Tests []app.TestRequest `yaml:"tests"`
}

func newBatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [requests.yaml]",
		Short: "Run a YAML list of test requests concurrently",
		Long: `Run every request under the top-level "tests" key. Field names match the
JSON API. Requests that fail evaluation are reported with their error code;
the rest are stored.

Example:
  tests:
    - {label: fill weight, kind: t, mu: 1060, sample: [1035, 1050, 1020, 1055, 1046]}
    - {kind: f, ssr1: 100, ssr2: 10, dof1: 1, dof2: 2, n_total: 20}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read batch file: %w", err)
			}
			var batch batchFile
			if err := yaml.Unmarshal(raw, &batch); err != nil {
				return fmt.Errorf("failed to parse batch file: %w", err)
			}
			if len(batch.Tests) == 0 {
				return fmt.Errorf("batch file %s has no tests", args[0])
			}
			for i := range batch.Tests {
				opts.applyDefaults(&batch.Tests[i])
			}

			items, err := opts.service.RunBatch(cmd.Context(), batch.Tests)
			if err != nil {
				return err
			}
			return opts.printBatch(cmd.OutOrStdout(), items)
		},
	}
	return cmd
}

func newCriticalCmd(opts *options) *cobra.Command {
	var kind string
	var dof1, dof2 float64

	cmd := &cobra.Command{
		Use:   "critical",
		Short: "Print the critical value(s) for a test configuration",
		Long: `Print the statistic value(s) at which a test switches from retain to reject.

Example: hypotest critical --kind t --dof1 4 --alpha 0.05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := stats.ParseTestKind(kind)
			if err != nil {
				return err
			}
			req := opts.request(k, "")
			tail := stats.TailMode(req.Tail)
			if tail == "" {
				tail = stats.TailTwoSided
				if k.UpperTailOnly() {
					tail = stats.TailUpper
				}
			}
			alpha := req.Alpha
			if alpha == 0 {
				alpha = opts.container.Config.Evaluation.DefaultAlpha
			}

			cfg := stats.TestConfig{Kind: k, Tail: tail, Alpha: alpha, DoF1: dof1, DoF2: dof2}
			values, err := opts.service.CriticalValues(cfg)
			if err != nil {
				return err
			}
			return opts.printCritical(cmd.OutOrStdout(), cfg, values)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "z", "Test kind: z|t|chi2|f")
	cmd.Flags().Float64Var(&dof1, "dof1", 0, "Degrees of freedom (t, chi2) or numerator degrees of freedom (F)")
	cmd.Flags().Float64Var(&dof2, "dof2", 0, "Denominator degrees of freedom (F)")
	return cmd
}

// request starts a test request with the global alpha and tail flags applied
func (o *options) request(kind stats.TestKind, label string) app.TestRequest {
	req := app.TestRequest{Label: label, Kind: string(kind)}
	o.applyDefaults(&req)
	return req
}

func (o *options) applyDefaults(req *app.TestRequest) {
	if req.Alpha == 0 {
		req.Alpha = o.alpha
	}
	if req.Tail == "" {
		req.Tail = o.tail
	}
}

// sample returns inline values, or reads column from --file when inline
// values are absent
func (o *options) sample(values []float64, column string) ([]float64, error) {
	if len(values) > 0 || column == "" {
		return values, nil
	}
	if o.file == "" {
		return nil, fmt.Errorf("--column %s needs --file or DATA_FILE", column)
	}
	var src ports.SampleSource = excel.NewDataReader(o.file).WithSheet(o.sheet)
	return src.Column(column)
}

func (o *options) run(cmd *cobra.Command, req app.TestRequest) error {
	record, err := o.service.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return o.printRecord(cmd.OutOrStdout(), record)
}
