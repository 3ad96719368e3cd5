package app

import (
	"context"
	"fmt"
	"time"

	"hypotest/adapters/stats/fitting"
	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal"
	apperrors "hypotest/internal/errors"
	"hypotest/internal/hypothesis"
	"hypotest/internal/metrics"
	"hypotest/ports"

	"golang.org/x/sync/errgroup"
)

// HypothesisService runs test requests against the evaluator and keeps the
// resulting records in the ledger
type HypothesisService struct {
	procedures *hypothesis.Procedures
	comparator *hypothesis.Comparator
	ledger     ports.ResultLedger
	metrics    *metrics.Collector
	logger     *internal.Logger
	defaults   Defaults
}

// Defaults fill in request fields the caller left unset
type Defaults struct {
	Alpha        float64
	Tail         stats.TailMode
	BatchWorkers int
}

// TestRequest describes one hypothesis test. Which fields are read depends
// on Kind:
//
//	z     Sample with Mu and Sigma, or SampleMean with Mu and SigmaMu
//	t     Sample and Mu
//	chi2  Observed, Expected and Errors
//	f     SSR1, SSR2, DoF1 and DoF2 (parameter counts) and NTotal
type TestRequest struct {
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind       string    `json:"kind" yaml:"kind" binding:"required,oneof=z t chi2 f"`
	Tail       string    `json:"tail,omitempty" yaml:"tail,omitempty"`
	Alpha      float64   `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	Mu         float64   `json:"mu,omitempty" yaml:"mu,omitempty"`
	Sigma      float64   `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	SampleMean float64   `json:"sample_mean,omitempty" yaml:"sample_mean,omitempty"`
	SigmaMu    float64   `json:"sigma_mu,omitempty" yaml:"sigma_mu,omitempty"`
	Sample     []float64 `json:"sample,omitempty" yaml:"sample,omitempty"`
	Observed   []float64 `json:"observed,omitempty" yaml:"observed,omitempty"`
	Expected   []float64 `json:"expected,omitempty" yaml:"expected,omitempty"`
	Errors     []float64 `json:"errors,omitempty" yaml:"errors,omitempty"`
	SSR1       float64   `json:"ssr1,omitempty" yaml:"ssr1,omitempty"`
	SSR2       float64   `json:"ssr2,omitempty" yaml:"ssr2,omitempty"`
	DoF1       int       `json:"dof1,omitempty" yaml:"dof1,omitempty"`
	DoF2       int       `json:"dof2,omitempty" yaml:"dof2,omitempty"`
	NTotal     int       `json:"n_total,omitempty" yaml:"n_total,omitempty"`
}

// BatchItem is the outcome of one request in a batch. Exactly one of Record
// and Error is set.
type BatchItem struct {
	Index  int           `json:"index"`
	Record *stats.Record `json:"record,omitempty"`
	Code   string        `json:"code,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ComparisonRequest asks for the simplest model in a nested family that
// adequately describes (X, Y). Family is "polynomial" (the default), fitted
// for degrees 0..MaxDegree, or "exponential" (constant, a·e^(bx) and
// a·e^(bx)+c), which ignores MaxDegree.
type ComparisonRequest struct {
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Family    string    `json:"family,omitempty" yaml:"family,omitempty" binding:"omitempty,oneof=polynomial exponential"`
	X         []float64 `json:"x" yaml:"x" binding:"required"`
	Y         []float64 `json:"y" yaml:"y" binding:"required"`
	MaxDegree int       `json:"max_degree,omitempty" yaml:"max_degree,omitempty" binding:"omitempty,gte=1"`
	Alpha     float64   `json:"alpha,omitempty" yaml:"alpha,omitempty"`
}

// ComparisonResponse carries the fitted family, the comparison and the ids
// of the records stored for each F step
type ComparisonResponse struct {
	Candidates []stats.ModelFit       `json:"candidates"`
	Result     stats.ComparisonResult `json:"result"`
	Advisory   string                 `json:"advisory,omitempty"`
	RecordIDs  []core.ID              `json:"record_ids"`
}

// NewHypothesisService creates a hypothesis service
func NewHypothesisService(procedures *hypothesis.Procedures, ledger ports.ResultLedger, collector *metrics.Collector, logger *internal.Logger, defaults Defaults) *HypothesisService {
	if defaults.Alpha == 0 {
		defaults.Alpha = 0.05
	}
	if defaults.Tail == "" {
		defaults.Tail = stats.TailTwoSided
	}
	if defaults.BatchWorkers < 1 {
		defaults.BatchWorkers = 1
	}
	return &HypothesisService{
		procedures: procedures,
		comparator: hypothesis.NewComparator(procedures.Evaluator()),
		ledger:     ledger,
		metrics:    collector,
		logger:     logger,
		defaults:   defaults,
	}
}

// Run evaluates a single request and stores the record
func (s *HypothesisService) Run(ctx context.Context, req TestRequest) (*stats.Record, error) {
	record, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, record); err != nil {
		return nil, err
	}
	return &record, nil
}

// RunBatch evaluates requests concurrently. Evaluation failures are kept in
// their item; a ledger failure aborts the batch. Items keep input order.
func (s *HypothesisService) RunBatch(ctx context.Context, reqs []TestRequest) ([]BatchItem, error) {
	items := make([]BatchItem, len(reqs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.defaults.BatchWorkers)

	for i, req := range reqs {
		g.Go(func() error {
			items[i].Index = i
			record, err := s.evaluate(req)
			if err != nil {
				appErr := apperrors.FromDomain(err)
				items[i].Code = appErr.Code
				items[i].Error = appErr.Message
				return nil
			}
			if err := s.store(gCtx, record); err != nil {
				return fmt.Errorf("batch item %d: %w", i, err)
			}
			items[i].Record = &record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("batch of %d requests completed", len(reqs))
	return items, nil
}

// CompareModels fits the requested nested family and selects the simplest
// adequate model with successive F-tests
func (s *HypothesisService) CompareModels(ctx context.Context, req ComparisonRequest) (*ComparisonResponse, error) {
	alpha := req.Alpha
	if alpha == 0 {
		alpha = s.defaults.Alpha
	}
	family := req.Family
	if family == "" {
		family = fitting.FamilyPolynomial
	}
	maxDegree := req.MaxDegree
	if maxDegree == 0 && family == fitting.FamilyPolynomial {
		return nil, core.NewInvalidParameterError("max_degree", 0, "required for the polynomial family")
	}
	logger := s.logger.With("family", family, "points", len(req.X))

	candidates, err := fitting.Family(family, req.X, req.Y, maxDegree)
	if err != nil {
		s.metrics.RecordError(stats.TestF, err)
		return nil, err
	}

	result, err := s.comparator.Compare(candidates, len(req.X), alpha)
	if err != nil {
		s.metrics.RecordError(stats.TestF, err)
		return nil, err
	}
	s.metrics.RecordComparison(result)

	label := req.Label
	if label == "" {
		label = family + " comparison"
	}

	resp := &ComparisonResponse{
		Candidates: candidates,
		Result:     result,
		RecordIDs:  make([]core.ID, 0, len(result.Steps)),
	}
	if result.Advisory != nil {
		resp.Advisory = result.Advisory.Error()
		logger.Warn("%s: %v, selected %s", label, result.Advisory, result.Selected.Label)
	}

	for _, step := range result.Steps {
		simpler, richer := candidates[step.Simpler], candidates[step.Richer]
		record := stats.NewRecord(
			fmt.Sprintf("%s: %s vs %s", label, simpler.Label, richer.Label),
			step.Config,
			step.Result,
			map[string]any{
				"ssr1":    simpler.SSR,
				"ssr2":    richer.SSR,
				"k1":      simpler.ParamCount,
				"k2":      richer.ParamCount,
				"n_total": len(req.X),
			},
		)
		s.metrics.RecordEvaluation(stats.TestF, step.Result.Decision, 0)
		if err := s.store(ctx, record); err != nil {
			return nil, err
		}
		resp.RecordIDs = append(resp.RecordIDs, record.ID)
	}

	logger.Info("%s: selected %s after %d F-tests", label, result.Selected.Label, len(result.Steps))
	return resp, nil
}

// Get loads a stored record
func (s *HypothesisService) Get(ctx context.Context, id core.ID) (*stats.Record, error) {
	return s.ledger.Get(ctx, id)
}

// List returns stored records, newest first
func (s *HypothesisService) List(ctx context.Context, filter ports.ResultFilter) ([]stats.Record, error) {
	return s.ledger.List(ctx, filter)
}

// CriticalValues returns the decision boundary for a stored configuration
func (s *HypothesisService) CriticalValues(cfg stats.TestConfig) ([]float64, error) {
	return s.procedures.Evaluator().CriticalValues(cfg)
}

func (s *HypothesisService) evaluate(req TestRequest) (stats.Record, error) {
	start := time.Now()
	kind := stats.TestKind(req.Kind)

	out, inputs, err := s.dispatch(req)
	if err != nil {
		s.metrics.RecordError(kind, err)
		if core.IsCallerError(err) {
			s.logger.Warn("%s test %q rejected: %v", req.Kind, req.Label, err)
		} else {
			s.logger.Error("%s test %q failed: %v", req.Kind, req.Label, err)
		}
		return stats.Record{}, err
	}

	s.metrics.RecordEvaluation(out.Config.Kind, out.Result.Decision, time.Since(start))
	s.logger.Debug("%s test %q: statistic=%g p=%g decision=%s",
		out.Config.Kind, req.Label, out.Result.Statistic, out.Result.PValue, out.Result.Decision)

	return stats.NewRecord(req.Label, out.Config, out.Result, inputs), nil
}

func (s *HypothesisService) dispatch(req TestRequest) (hypothesis.Outcome, map[string]any, error) {
	kind, err := stats.ParseTestKind(req.Kind)
	if err != nil {
		return hypothesis.Outcome{}, nil, err
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = s.defaults.Alpha
	}
	tail, err := s.tailFor(kind, req.Tail)
	if err != nil {
		return hypothesis.Outcome{}, nil, err
	}

	switch kind {
	case stats.TestZ:
		if len(req.Sample) > 0 {
			out, err := s.procedures.ZTestSample(req.Sample, req.Mu, req.Sigma, tail, alpha)
			if err != nil {
				return out, nil, err
			}
			return out, map[string]any{"n": out.Summary.N, "mean": out.Summary.Mean, "mu": req.Mu, "sigma": req.Sigma}, nil
		}
		out, err := s.procedures.ZTest(req.SampleMean, req.Mu, req.SigmaMu, tail, alpha)
		return out, map[string]any{"sample_mean": req.SampleMean, "mu": req.Mu, "sigma_mu": req.SigmaMu}, err

	case stats.TestT:
		out, err := s.procedures.TTest(req.Sample, req.Mu, tail, alpha)
		if err != nil {
			return out, nil, err
		}
		return out, map[string]any{"n": out.Summary.N, "mean": out.Summary.Mean, "std_dev": out.Summary.StdDev, "mu": req.Mu}, nil

	case stats.TestChi2:
		out, err := s.procedures.ChiSquareTest(req.Observed, req.Expected, req.Errors, tail, alpha)
		return out, map[string]any{"bins": len(req.Observed)}, err

	default:
		simpler := stats.ModelFit{SSR: req.SSR1, ParamCount: req.DoF1}
		richer := stats.ModelFit{SSR: req.SSR2, ParamCount: req.DoF2}
		out, err := s.procedures.FTest(simpler, richer, req.NTotal, tail, alpha)
		return out, map[string]any{"ssr1": req.SSR1, "ssr2": req.SSR2, "k1": req.DoF1, "k2": req.DoF2, "n_total": req.NTotal}, err
	}
}

// tailFor resolves the tail mode. chi2 and F are always upper-tailed, so an
// unset tail means upper for them rather than the configured default.
func (s *HypothesisService) tailFor(kind stats.TestKind, raw string) (stats.TailMode, error) {
	if raw == "" {
		if kind.UpperTailOnly() {
			return stats.TailUpper, nil
		}
		return s.defaults.Tail, nil
	}
	return stats.ParseTailMode(raw)
}

func (s *HypothesisService) store(ctx context.Context, record stats.Record) error {
	if err := s.ledger.Store(ctx, record); err != nil {
		s.logger.Error("failed to store record %s: %v", record.ID, err)
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	return nil
}
