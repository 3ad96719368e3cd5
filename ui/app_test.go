package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hypotest/adapters/stats/distributions"
	"hypotest/app"
	"hypotest/domain/core"
	"hypotest/internal"
	"hypotest/internal/hypothesis"
	"hypotest/internal/metrics"
	"hypotest/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*App, *app.HypothesisService) {
	t.Helper()
	logger := internal.NewLoggerWithZap(internal.LogLevelError, zap.NewNop())
	procedures := hypothesis.NewProcedures(hypothesis.NewEvaluator(distributions.NewGonumProvider()))
	service := app.NewHypothesisService(procedures, testkit.NewInMemoryLedger(), metrics.NewCollector("test"), logger, app.Defaults{})

	a, err := NewApp(service, logger)
	require.NoError(t, err)
	return a, service
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReportPages(t *testing.T) {
	a, service := newTestApp(t)

	resp := get(a, "/reports/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "No results recorded yet.")

	sc := testkit.TScenario
	rec, err := service.Run(context.Background(), app.TestRequest{Label: "Bottle fill", Kind: "t", Sample: sc.Sample, Mu: sc.Mu})
	require.NoError(t, err)

	resp = get(a, "/reports/")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "/reports/"+rec.ID.String())

	resp = get(a, "/reports/"+rec.ID.String())
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>Bottle fill · hypotest</title>")
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "t(4)")
	assert.Contains(t, body, "Critical values")
}

func TestReportPages_EscapeLabels(t *testing.T) {
	a, service := newTestApp(t)

	sc := testkit.TScenario
	rec, err := service.Run(context.Background(), app.TestRequest{
		Label: "<img src=x onerror=alert(1)>", Kind: "t", Sample: sc.Sample, Mu: sc.Mu,
	})
	require.NoError(t, err)

	for _, path := range []string{"/reports/", "/reports/" + rec.ID.String()} {
		resp := get(a, path)
		require.Equal(t, http.StatusOK, resp.Code, path)
		body := resp.Body.String()
		assert.NotContains(t, body, "<img", path)
		assert.Contains(t, body, "&lt;img src=x onerror=alert(1)&gt;", path)
	}
}

func TestReportPages_Errors(t *testing.T) {
	a, _ := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, get(a, "/reports/"+core.NewID().String()).Code)
	assert.Equal(t, http.StatusBadRequest, get(a, "/reports/bogus").Code)
}
