package ui

import (
	"html/template"
	"net/http"
	"strconv"

	"hypotest/domain/core"
	"hypotest/internal/report"
	"hypotest/ports"

	"github.com/go-chi/chi/v5"
)

// page is the data handed to the layout template
type page struct {
	Title string
	Body  template.HTML
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := a.service.List(r.Context(), ports.ResultFilter{Limit: limit})
	if err != nil {
		a.logger.Error("listing results: %v", err)
		http.Error(w, "failed to load results", http.StatusInternalServerError)
		return
	}

	a.renderTemplate(w, "report.html", page{
		Title: "Results",
		Body:  template.HTML(report.ToHTML(report.Index(records))),
	})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := a.service.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.NotFound(w, r)
			return
		}
		a.logger.Error("loading result %s: %v", id, err)
		http.Error(w, "failed to load result", http.StatusInternalServerError)
		return
	}

	critical, err := a.service.CriticalValues(record.Config)
	if err != nil {
		a.logger.Warn("critical values for %s: %v", id, err)
		critical = nil
	}

	title := record.Label
	if title == "" {
		title = string(record.Config.Kind) + " test"
	}
	a.renderTemplate(w, "report.html", page{
		Title: title,
		Body:  template.HTML(report.ToHTML(report.Record(*record, critical))),
	})
}
