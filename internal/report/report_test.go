package report

import (
	"math"
	"strings"
	"testing"

	"hypotest/domain/core"
	"hypotest/domain/stats"

	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	cfg := stats.TestConfig{Kind: stats.TestT, Tail: stats.TailTwoSided, Alpha: 0.05, DoF1: 4}
	result := stats.TestResult{Statistic: -3.012728, PValue: 0.0394443, Decision: stats.DecisionReject}
	rec := stats.NewRecord("Bottle fill", cfg, result, map[string]any{"mu": 1060, "n": 5})

	md := Record(rec, []float64{-2.776, 2.776})

	assert.True(t, strings.HasPrefix(md, "# Bottle fill\n"))
	assert.Contains(t, md, "| Reference | t(4) |")
	assert.Contains(t, md, "| p-value | 0.0394443 |")
	assert.Contains(t, md, "| Decision | **reject** |")
	assert.Contains(t, md, "| Critical values | -2.776, 2.776 |")
	assert.Contains(t, md, "- mu: 1060\n- n: 5\n")
	assert.Contains(t, md, "the null hypothesis is rejected")
}

func TestConclusion_Retain(t *testing.T) {
	cfg := stats.TestConfig{Kind: stats.TestZ, Tail: stats.TailTwoSided, Alpha: 0.05}
	got := Conclusion(cfg, stats.TestResult{PValue: 0.05, Decision: stats.DecisionRetain})
	assert.Equal(t, "p = 0.05 ≥ α = 0.05: the null hypothesis is retained.", got)
}

func TestComparison(t *testing.T) {
	candidates := []stats.ModelFit{
		{Label: "constant", SSR: 100, ParamCount: 1},
		{Label: "linear", SSR: 10, ParamCount: 2},
	}
	result := stats.ComparisonResult{
		Selected:      candidates[1],
		SelectedIndex: 1,
		Steps: []stats.ComparisonStep{{
			Simpler:    0,
			Richer:     1,
			FStatistic: 162,
			Config:     stats.TestConfig{Kind: stats.TestF, Tail: stats.TailUpper, Alpha: 0.05, DoF1: 1, DoF2: 18},
			Result:     stats.TestResult{Statistic: 162, PValue: 1.9e-10, Decision: stats.DecisionReject},
		}},
		Advisory: core.ErrNoSufficientModel,
	}

	md := Comparison(candidates, result)
	assert.Contains(t, md, "| 1 | linear ✔ | 2 | 10 |")
	assert.Contains(t, md, "| 0 | 1 | 162 | F(1,18) | 1.900e-10 | reject |")
	assert.Contains(t, md, "No candidate was confirmed sufficient")
}

func TestIndex(t *testing.T) {
	assert.Contains(t, Index(nil), "No results recorded yet.")

	rec := stats.NewRecord("a|b", stats.TestConfig{Kind: stats.TestZ, Tail: stats.TailTwoSided, Alpha: 0.05},
		stats.TestResult{Statistic: math.Inf(1), PValue: 0, Decision: stats.DecisionReject}, nil)
	md := Index([]stats.Record{rec})
	assert.Contains(t, md, "[a\\|b](/reports/"+rec.ID.String()+")")
	assert.Contains(t, md, "| ∞ |")
}

func TestToHTML(t *testing.T) {
	out := string(ToHTML("# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Title</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestToHTML_LabelsAreEscaped(t *testing.T) {
	const label = "<img src=x onerror=alert(1)>"
	rec := stats.NewRecord(label, stats.TestConfig{Kind: stats.TestZ, Tail: stats.TailTwoSided, Alpha: 0.05},
		stats.TestResult{Statistic: 1, PValue: 0.3, Decision: stats.DecisionRetain}, nil)

	for name, md := range map[string]string{
		"record": Record(rec, nil),
		"index":  Index([]stats.Record{rec}),
	} {
		t.Run(name, func(t *testing.T) {
			out := string(ToHTML(md))
			assert.NotContains(t, out, "<img")
			assert.Contains(t, out, "&lt;img src=x onerror=alert(1)&gt;")
		})
	}
}

func TestToHTML_DropsRawHTML(t *testing.T) {
	out := string(ToHTML("before <script>alert(1)</script> after\n\n<div onclick=\"x()\">block</div>\n"))
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<div")
	assert.Contains(t, out, "before")
}
