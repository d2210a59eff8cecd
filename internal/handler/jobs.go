// Package handler contains the HTTP request handlers for the jobs-dashboard API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/jobs-dashboard/internal/cache"
	"github.com/jonesrussell/jobs-dashboard/internal/domain"
	"github.com/jonesrussell/jobs-dashboard/internal/filter"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/metrics"
	"github.com/jonesrussell/jobs-dashboard/internal/source"
	"github.com/jonesrussell/jobs-dashboard/internal/storage"
)

// trueString marks an enabled boolean query parameter.
const trueString = "true"

// StatusWriter is the subset of the status store used by the update endpoint.
type StatusWriter interface {
	Update(ctx context.Context, filename, status string) error
}

// StatusUpdateRequest is the PUT /api/jobs/:filename/status body.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// JobsHandler serves the filtered job listing and status updates.
type JobsHandler struct {
	cache  *cache.ViewCache
	store  StatusWriter
	logger logger.Logger
	now    func() time.Time
}

// NewJobsHandler creates a JobsHandler with the given dependencies.
func NewJobsHandler(viewCache *cache.ViewCache, store StatusWriter, log logger.Logger) *JobsHandler {
	return &JobsHandler{
		cache:  viewCache,
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// ListJobs handles GET /api/jobs. Query parameters: status, days, seniority
// (repeatable), german (repeatable), q, refcache.
func (h *JobsHandler) ListJobs(c *gin.Context) {
	force := c.Query("refcache") == trueString

	records, ok := h.loadView(c, force)
	if !ok {
		return
	}

	preds := filter.Parse(c.Request.URL.Query())
	result := filter.Apply(records, preds, h.now())

	payload := make([]map[string]string, 0, len(result))
	for _, record := range result {
		payload = append(payload, record.Flatten())
	}

	c.JSON(http.StatusOK, payload)
}

// UpdateStatus handles PUT /api/jobs/:filename/status. A successful write
// invalidates the view cache so the next read sees the new status.
func (h *JobsHandler) UpdateStatus(c *gin.Context) {
	filename := c.Param("filename")

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if err := h.store.Update(c.Request.Context(), filename, req.Status); err != nil {
		h.logger.Error("Failed to update job status",
			logger.Error(err),
			logger.String("filename", filename),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status store unavailable"})
		return
	}

	metrics.StatusUpdates.Inc()
	h.cache.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"message": "Status of " + filename + " updated to " + req.Status,
	})
}

// loadView fetches the reconciled view, writing the error response itself when
// the rebuild fails. The second return value reports success.
func (h *JobsHandler) loadView(c *gin.Context, force bool) ([]domain.JobRecord, bool) {
	records, err := h.cache.Get(c.Request.Context(), force)
	if err == nil {
		return records, true
	}

	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job listing not found"})
	case errors.Is(err, storage.ErrStoreUnavailable):
		// Correctness over availability: no fabricated default statuses
		c.JSON(http.StatusNotFound, gin.H{"error": "status store unavailable, job view cannot be built"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build job view"})
	}

	h.logger.Error("Failed to build job view", logger.Error(err))

	return nil, false
}
