package stats

import (
	"fmt"

	"hypotest/domain/core"
)

// ============================================================================
// REFERENCE DISTRIBUTIONS
// ============================================================================

// Family names a reference probability distribution
type Family string

const (
	FamilyNormal     Family = "normal"
	FamilyStudentT   Family = "student_t"
	FamilyChiSquared Family = "chi_squared"
	FamilyF          Family = "f"
)

// Symmetric reports whether the family is symmetric about zero
func (f Family) Symmetric() bool {
	return f == FamilyNormal || f == FamilyStudentT
}

// Reference is a fully parameterised reference distribution.
// DoF1 is nu for Student-t, k for chi-squared and d1 for F. DoF2 is only used by F.
// The normal family is always the unit normal.
type Reference struct {
	Family Family  `json:"family"`
	DoF1   float64 `json:"dof1,omitempty"`
	DoF2   float64 `json:"dof2,omitempty"`
}

func (r Reference) String() string {
	switch r.Family {
	case FamilyNormal:
		return "N(0,1)"
	case FamilyStudentT:
		return fmt.Sprintf("t(%g)", r.DoF1)
	case FamilyChiSquared:
		return fmt.Sprintf("chi2(%g)", r.DoF1)
	case FamilyF:
		return fmt.Sprintf("F(%g,%g)", r.DoF1, r.DoF2)
	default:
		return string(r.Family)
	}
}

// ============================================================================
// TEST CONFIGURATION
// ============================================================================

// TestKind identifies one of the supported hypothesis tests
type TestKind string

const (
	TestZ    TestKind = "z"
	TestT    TestKind = "t"
	TestChi2 TestKind = "chi2"
	TestF    TestKind = "f"
)

// Family returns the reference distribution family for the test kind
func (k TestKind) Family() Family {
	switch k {
	case TestZ:
		return FamilyNormal
	case TestT:
		return FamilyStudentT
	case TestChi2:
		return FamilyChiSquared
	case TestF:
		return FamilyF
	default:
		return ""
	}
}

// Valid reports whether the kind is known
func (k TestKind) Valid() bool {
	return k.Family() != ""
}

// UpperTailOnly reports whether the test is inherently one-tailed upper
func (k TestKind) UpperTailOnly() bool {
	return k == TestChi2 || k == TestF
}

// ParseTestKind parses a test kind name
func ParseTestKind(s string) (TestKind, error) {
	k := TestKind(s)
	if !k.Valid() {
		return "", core.NewInvalidParameterError("kind", s, "must be one of z, t, chi2, f")
	}
	return k, nil
}

// TailMode selects which side(s) of the reference distribution count as extreme
type TailMode string

const (
	TailTwoSided TailMode = "two-sided"
	TailUpper    TailMode = "upper"
	TailLower    TailMode = "lower"
)

// Valid reports whether the tail mode is known
func (t TailMode) Valid() bool {
	return t == TailTwoSided || t == TailUpper || t == TailLower
}

// ParseTailMode parses a tail mode name
func ParseTailMode(s string) (TailMode, error) {
	t := TailMode(s)
	if !t.Valid() {
		return "", core.NewInvalidParameterError("tail", s, "must be one of two-sided, upper, lower")
	}
	return t, nil
}

// TestConfig is the immutable configuration of a single test invocation
type TestConfig struct {
	Kind  TestKind `json:"kind"`
	Tail  TailMode `json:"tail"`
	Alpha float64  `json:"alpha"`
	DoF1  float64  `json:"dof1,omitempty"`
	DoF2  float64  `json:"dof2,omitempty"`
}

// Reference returns the reference distribution described by the config
func (c TestConfig) Reference() Reference {
	ref := Reference{Family: c.Kind.Family()}
	switch c.Kind {
	case TestT, TestChi2:
		ref.DoF1 = c.DoF1
	case TestF:
		ref.DoF1 = c.DoF1
		ref.DoF2 = c.DoF2
	}
	return ref
}

// Validate checks the configuration. Degrees of freedom are left to the
// distribution provider so that bad values surface as distribution errors.
func (c TestConfig) Validate() error {
	if !c.Kind.Valid() {
		return core.NewInvalidParameterError("kind", c.Kind, "unknown test kind")
	}
	if !c.Tail.Valid() {
		return core.NewInvalidParameterError("tail", c.Tail, "unknown tail mode")
	}
	if !(c.Alpha > 0 && c.Alpha < 1) {
		return core.NewInvalidParameterError("alpha", c.Alpha, "must be in (0,1)")
	}
	if c.Kind.UpperTailOnly() && c.Tail == TailTwoSided {
		return core.NewInvalidParameterError("tail", c.Tail, fmt.Sprintf("%s test is one-tailed upper only", c.Kind))
	}
	return nil
}

// ============================================================================
// RESULTS
// ============================================================================

// Decision is the outcome of comparing a p-value against alpha
type Decision string

const (
	DecisionReject Decision = "reject"
	DecisionRetain Decision = "retain"
)

// TestResult is the immutable outcome of a single evaluation
type TestResult struct {
	Statistic float64  `json:"statistic"`
	PValue    float64  `json:"p_value"`
	Decision  Decision `json:"decision"`
}

// Rejected reports whether the null hypothesis was rejected
func (r TestResult) Rejected() bool {
	return r.Decision == DecisionReject
}

// ============================================================================
// MODEL COMPARISON
// ============================================================================

// ModelFit is a fitted candidate model, produced by a curve-fitting collaborator
type ModelFit struct {
	Label      string    `json:"label,omitempty"`
	SSR        float64   `json:"ssr"`
	ParamCount int       `json:"param_count"`
	Params     []float64 `json:"params,omitempty"`
}

// ComparisonStep records one F-test between adjacent candidates
type ComparisonStep struct {
	Simpler    int        `json:"simpler"`
	Richer     int        `json:"richer"`
	FStatistic float64    `json:"f_statistic"`
	Config     TestConfig `json:"config"`
	Result     TestResult `json:"result"`
}

// ComparisonResult is the outcome of a nested-model comparison.
// Advisory is core.ErrNoSufficientModel when every step rejected.
type ComparisonResult struct {
	Selected      ModelFit         `json:"selected"`
	SelectedIndex int              `json:"selected_index"`
	Steps         []ComparisonStep `json:"steps"`
	Advisory      error            `json:"-"`
}

// Exhausted reports whether the candidate list ran out without a retain
func (r ComparisonResult) Exhausted() bool {
	return r.Advisory != nil
}
