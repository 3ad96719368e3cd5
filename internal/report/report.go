// Package report renders evaluation records and model comparisons as
// Markdown, and Markdown as HTML for the report pages.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"hypotest/domain/stats"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Record renders a single evaluation. critical holds the decision boundary
// quantiles and may be nil.
func Record(rec stats.Record, critical []float64) string {
	var b strings.Builder

	title := rec.Label
	if title == "" {
		title = string(rec.Config.Kind) + " test"
	}
	fmt.Fprintf(&b, "# %s\n\n", escapeText(title))
	fmt.Fprintf(&b, "Recorded %s, id `%s`.\n\n", rec.CreatedAt.String(), rec.ID)

	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Test | %s |\n", rec.Config.Kind)
	fmt.Fprintf(&b, "| Reference | %s |\n", rec.Config.Reference())
	fmt.Fprintf(&b, "| Tail | %s |\n", rec.Config.Tail)
	fmt.Fprintf(&b, "| Alpha | %s |\n", formatFloat(rec.Config.Alpha))
	fmt.Fprintf(&b, "| Statistic | %s |\n", formatFloat(rec.Result.Statistic))
	fmt.Fprintf(&b, "| p-value | %s |\n", formatFloat(rec.Result.PValue))
	fmt.Fprintf(&b, "| Decision | **%s** |\n", rec.Result.Decision)
	if len(critical) > 0 {
		parts := make([]string, len(critical))
		for i, c := range critical {
			parts[i] = formatFloat(c)
		}
		fmt.Fprintf(&b, "| Critical values | %s |\n", strings.Join(parts, ", "))
	}

	if len(rec.Inputs) > 0 {
		b.WriteString("\n## Inputs\n\n")
		keys := make([]string, 0, len(rec.Inputs))
		for k := range rec.Inputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", escapeText(k), escapeText(fmt.Sprint(rec.Inputs[k])))
		}
	}

	b.WriteString("\n")
	b.WriteString(Conclusion(rec.Config, rec.Result))
	b.WriteString("\n")
	return b.String()
}

// Conclusion states the decision in one sentence
func Conclusion(cfg stats.TestConfig, result stats.TestResult) string {
	if result.Rejected() {
		return fmt.Sprintf("p = %s < α = %s: the null hypothesis is rejected.",
			formatFloat(result.PValue), formatFloat(cfg.Alpha))
	}
	return fmt.Sprintf("p = %s ≥ α = %s: the null hypothesis is retained.",
		formatFloat(result.PValue), formatFloat(cfg.Alpha))
}

// Comparison renders a nested-model comparison and its F-test steps
func Comparison(candidates []stats.ModelFit, result stats.ComparisonResult) string {
	var b strings.Builder

	b.WriteString("# Model comparison\n\n")
	b.WriteString("| # | Model | Parameters | SSR |\n|---|---|---|---|\n")
	for i, c := range candidates {
		marker := ""
		if i == result.SelectedIndex {
			marker = " ✔"
		}
		fmt.Fprintf(&b, "| %d | %s%s | %d | %s |\n", i, labelOf(c, i), marker, c.ParamCount, formatFloat(c.SSR))
	}

	b.WriteString("\n## F-tests\n\n")
	b.WriteString("| Simpler | Richer | F | Reference | p-value | Decision |\n|---|---|---|---|---|---|\n")
	for _, s := range result.Steps {
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s |\n",
			s.Simpler, s.Richer, formatFloat(s.FStatistic), s.Config.Reference(),
			formatFloat(s.Result.PValue), s.Result.Decision)
	}

	b.WriteString("\n")
	if result.Exhausted() {
		fmt.Fprintf(&b, "Every richer model was significant; selected the richest candidate, %s. No candidate was confirmed sufficient.\n",
			labelOf(result.Selected, result.SelectedIndex))
	} else {
		fmt.Fprintf(&b, "Selected %s.\n", labelOf(result.Selected, result.SelectedIndex))
	}
	return b.String()
}

// Index renders a list of records, newest first
func Index(records []stats.Record) string {
	var b strings.Builder
	b.WriteString("# Test results\n\n")
	if len(records) == 0 {
		b.WriteString("No results recorded yet.\n")
		return b.String()
	}
	b.WriteString("| Result | Test | Statistic | p-value | Decision | Recorded |\n|---|---|---|---|---|---|\n")
	for _, r := range records {
		label := r.Label
		if label == "" {
			label = r.ID.String()
		}
		fmt.Fprintf(&b, "| [%s](/reports/%s) | %s | %s | %s | %s | %s |\n",
			escapeText(label), r.ID, r.Config.Kind, formatFloat(r.Result.Statistic),
			formatFloat(r.Result.PValue), r.Result.Decision, r.CreatedAt.String())
	}
	return b.String()
}

// ToHTML converts Markdown to an HTML fragment. Raw HTML in the source is
// dropped, never passed through.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func labelOf(m stats.ModelFit, i int) string {
	if m.Label != "" {
		return escapeText(m.Label)
	}
	return fmt.Sprintf("model %d", i)
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case v != 0 && math.Abs(v) < 1e-4:
		return fmt.Sprintf("%.3e", v)
	default:
		return fmt.Sprintf("%.6g", v)
	}
}

// markupChars are the inline Markdown and HTML specials. Each is in
// parser.EscapeChars, so a backslash before it yields the literal character.
const markupChars = "\\`*_{}[]()#|&<>~^$!"

// escapeText backslash-escapes the markup characters in caller-supplied
// text. Labels then render as literal text, with any HTML in them escaped by
// the renderer, and pipes cannot split table cells.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(markupChars, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
