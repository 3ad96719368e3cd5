package api

import (
	"net/http"
	"time"

	"hypotest/internal"
	"hypotest/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the JSON API under /api/v1
func RegisterRoutes(r gin.IRouter, h *TestHandler) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/tests", h.RunTest)
		v1.POST("/tests/batch", h.RunBatch)
		v1.POST("/comparisons", h.CompareModels)
		v1.GET("/results", h.ListResults)
		v1.GET("/results/:id", h.GetResult)
		v1.GET("/critical", h.CriticalValues)
	}
}

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequestLogger logs and counts every request by its route pattern
func RequestLogger(logger *internal.Logger, collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		collector.RecordHTTPRequest(c.Request.Method, path, status, elapsed)
		if status >= http.StatusInternalServerError {
			logger.Error("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		} else {
			logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
		}
	}
}
