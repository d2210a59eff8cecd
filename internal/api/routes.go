package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/jobs-dashboard/internal/config"
	"github.com/jonesrussell/jobs-dashboard/internal/handler"
)

// SetupRoutes configures all API, observability, and static routes.
func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	jobsHandler *handler.JobsHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/jobs", jobsHandler.ListJobs)
		apiGroup.GET("/jobs/export", jobsHandler.ExportJobs)
		apiGroup.PUT("/jobs/:filename/status", jobsHandler.UpdateStatus)
	}

	// Saved job pages, served verbatim
	router.Static("/jobs", cfg.Source.ContentDir)

	// Dashboard frontend, when bundled
	if cfg.Source.FrontendDir != "" {
		router.StaticFile("/", filepath.Join(cfg.Source.FrontendDir, "index.html"))
		router.Static("/static", cfg.Source.FrontendDir)
		router.NoRoute(func(c *gin.Context) {
			if c.Request.Method == http.MethodGet {
				c.File(filepath.Join(cfg.Source.FrontendDir, "index.html"))
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}
}
