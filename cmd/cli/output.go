package main

import (
	"encoding/json"
	"fmt"
	"io"

	"hypotest/app"
	"hypotest/domain/stats"
	"hypotest/internal/report"
)

const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *options) printRecord(w io.Writer, rec *stats.Record) error {
	if o.format == formatJSON {
		return writeJSON(w, rec)
	}

	critical, err := o.service.CriticalValues(rec.Config)
	if err != nil {
		// the record is already stored; a missing boundary only shortens the output
		o.container.Logger.Warn("critical values for %s: %v", rec.ID, err)
		critical = nil
	}

	if o.format == formatMarkdown {
		_, err := io.WriteString(w, report.Record(*rec, critical))
		return err
	}

	fmt.Fprintf(w, "id:         %s\n", rec.ID)
	if rec.Label != "" {
		fmt.Fprintf(w, "label:      %s\n", rec.Label)
	}
	fmt.Fprintf(w, "test:       %s (%s, %s)\n", rec.Config.Kind, rec.Config.Reference(), rec.Config.Tail)
	fmt.Fprintf(w, "statistic:  %.6g\n", rec.Result.Statistic)
	fmt.Fprintf(w, "p-value:    %.6g\n", rec.Result.PValue)
	fmt.Fprintf(w, "alpha:      %g\n", rec.Config.Alpha)
	if len(critical) > 0 {
		fmt.Fprintf(w, "critical:   %.6g\n", critical)
	}
	fmt.Fprintf(w, "decision:   %s\n", rec.Result.Decision)
	_, err = fmt.Fprintln(w, report.Conclusion(rec.Config, rec.Result))
	return err
}

func (o *options) printComparison(w io.Writer, resp *app.ComparisonResponse) error {
	switch o.format {
	case formatJSON:
		return writeJSON(w, resp)
	case formatMarkdown:
		_, err := io.WriteString(w, report.Comparison(resp.Candidates, resp.Result))
		return err
	}

	for i, c := range resp.Candidates {
		marker := " "
		if i == resp.Result.SelectedIndex {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d %-10s k=%d ssr=%.6g\n", marker, i, c.Label, c.ParamCount, c.SSR)
	}
	for _, s := range resp.Result.Steps {
		fmt.Fprintf(w, "  F(%d vs %d) = %.6g, p = %.6g: %s\n",
			s.Simpler, s.Richer, s.FStatistic, s.Result.PValue, s.Result.Decision)
	}
	fmt.Fprintf(w, "selected: %s\n", resp.Result.Selected.Label)
	if resp.Advisory != "" {
		fmt.Fprintf(w, "warning: %s\n", resp.Advisory)
	}
	return nil
}

func (o *options) printBatch(w io.Writer, items []app.BatchItem) error {
	if o.format == formatJSON {
		return writeJSON(w, items)
	}

	for _, item := range items {
		if item.Record == nil {
			fmt.Fprintf(w, "#%d  error  %s: %s\n", item.Index, item.Code, item.Error)
			continue
		}
		rec := item.Record
		label := rec.Label
		if label == "" {
			label = string(rec.Config.Kind) + " test"
		}
		if o.format == formatMarkdown {
			fmt.Fprintf(w, "- **%s**: %s\n", label, report.Conclusion(rec.Config, rec.Result))
			continue
		}
		fmt.Fprintf(w, "#%d  %-6s %s  statistic=%.6g p=%.6g  %s\n",
			item.Index, rec.Result.Decision, rec.Config.Kind, rec.Result.Statistic, rec.Result.PValue, label)
	}
	return nil
}

func (o *options) printCritical(w io.Writer, cfg stats.TestConfig, values []float64) error {
	if o.format == formatJSON {
		return writeJSON(w, map[string]interface{}{
			"config":          cfg,
			"reference":       cfg.Reference().String(),
			"critical_values": values,
		})
	}
	_, err := fmt.Fprintf(w, "%s %s alpha=%g: %.6g\n", cfg.Reference(), cfg.Tail, cfg.Alpha, values)
	return err
}
