package api

import (
	"net/http"
	"strconv"

	"hypotest/app"
	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal/errors"
	"hypotest/ports"

	"github.com/gin-gonic/gin"
)

// TestHandler serves hypothesis test requests and stored results
type TestHandler struct {
	service *app.HypothesisService
}

// NewTestHandler creates a new test handler
func NewTestHandler(service *app.HypothesisService) *TestHandler {
	return &TestHandler{service: service}
}

// RunTest evaluates a single test request
func (h *TestHandler) RunTest(c *gin.Context) {
	var req app.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	record, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RunBatch evaluates a list of requests; per-item failures are reported inline
func (h *TestHandler) RunBatch(c *gin.Context) {
	var reqs []app.TestRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	if len(reqs) == 0 {
		respondError(c, errors.InvalidInput("batch must contain at least one request"))
		return
	}

	items, err := h.service.RunBatch(c.Request.Context(), reqs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// CompareModels runs a polynomial model comparison
func (h *TestHandler) CompareModels(c *gin.Context) {
	var req app.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	resp, err := h.service.CompareModels(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetResult returns a stored record
func (h *TestHandler) GetResult(c *gin.Context) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListResults returns stored records filtered by kind and decision
func (h *TestHandler) ListResults(c *gin.Context) {
	filter := ports.ResultFilter{
		Kind:     stats.TestKind(c.Query("kind")),
		Decision: stats.Decision(c.Query("decision")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		respondError(c, errors.InvalidInput("unknown kind "+strconv.Quote(string(filter.Kind))))
		return
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(c, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}

	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// CriticalValues returns the decision boundary for a configuration given as
// query parameters
func (h *TestHandler) CriticalValues(c *gin.Context) {
	cfg := stats.TestConfig{
		Kind: stats.TestKind(c.Query("kind")),
		Tail: stats.TailMode(c.DefaultQuery("tail", string(stats.TailTwoSided))),
	}
	var err error
	if cfg.Alpha, err = strconv.ParseFloat(c.DefaultQuery("alpha", "0.05"), 64); err != nil {
		respondError(c, errors.InvalidInput("alpha must be a number"))
		return
	}
	if cfg.DoF1, err = strconv.ParseFloat(c.DefaultQuery("dof1", "0"), 64); err != nil {
		respondError(c, errors.InvalidInput("dof1 must be a number"))
		return
	}
	if cfg.DoF2, err = strconv.ParseFloat(c.DefaultQuery("dof2", "0"), 64); err != nil {
		respondError(c, errors.InvalidInput("dof2 must be a number"))
		return
	}

	values, err := h.service.CriticalValues(cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg, "critical_values": values})
}

func respondError(c *gin.Context, err error) {
	appErr := errors.FromDomain(err)
	c.JSON(errors.HTTPStatus(appErr.Code), gin.H{"code": appErr.Code, "error": appErr.Error()})
}
