// Package api exposes the index builder over HTTP: trigger builds,
// poll job status, and inspect the last completed index set.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/araffali/product-indexer/index"
	"github.com/araffali/product-indexer/internal/engine"
	indexerrors "github.com/araffali/product-indexer/internal/errors"
	"github.com/araffali/product-indexer/internal/jobs"
	"github.com/araffali/product-indexer/model"
)

// API holds dependencies for the HTTP handlers.
type API struct {
	engine *engine.Engine
	jobs   *jobs.Manager
}

// NewAPI creates the API handler structure.
func NewAPI(eng *engine.Engine, jobManager *jobs.Manager) *API {
	return &API{engine: eng, jobs: jobManager}
}

// SetupRoutes defines all routes for the index builder.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, jobManager *jobs.Manager, metricsEnabled bool) {
	apiHandler := NewAPI(eng, jobManager)

	router.GET("/health", apiHandler.HealthCheckHandler)
	if metricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.POST("/builds", apiHandler.StartBuildHandler)
	router.POST("/exports", apiHandler.StartExportHandler)

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}

	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.GET("/stats", apiHandler.GetStatsHandler)
		indexRoutes.GET("/diagnostics", apiHandler.GetDiagnosticsHandler)
		indexRoutes.GET("/brand", apiHandler.LookupBrandHandler)
		indexRoutes.GET("/origin", apiHandler.LookupOriginHandler)
		indexRoutes.GET("/reviews", apiHandler.LookupReviewsHandler)
		indexRoutes.GET("/positions", apiHandler.LookupPositionsHandler)
	}
}

// HealthCheckHandler reports liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// buildRequest is the body of POST /builds.
type buildRequest struct {
	InputPath string `json:"input_path" binding:"required"`
}

// StartBuildHandler schedules a background index build.
func (api *API) StartBuildHandler(c *gin.Context) {
	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	jobID, err := api.engine.BuildFromFileAsync(req.InputPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start build: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}

// exportRequest is the body of POST /exports.
type exportRequest struct {
	OutputDir string `json:"output_dir" binding:"required"`
}

// StartExportHandler schedules a re-export of the last completed
// build's JSON index files to another directory.
func (api *API) StartExportHandler(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	jobID, err := api.engine.ExportAsync(req.OutputDir)
	if err != nil {
		if errors.Is(err, indexerrors.ErrNoCompletedBuild) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start export: " + err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"job_id": jobID,
	})
}

// GetJobHandler returns one job by ID.
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")
	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, indexerrors.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, optionally filtered by ?status=.
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if raw := c.Query("status"); raw != "" {
		status := model.JobStatus(raw)
		switch status {
		case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted, model.JobStatusFailed:
			statusFilter = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + raw})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": api.jobs.ListJobs(statusFilter)})
}

// GetStatsHandler returns stats of the last completed build.
func (api *API) GetStatsHandler(c *gin.Context) {
	stats, err := api.engine.Stats()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDiagnosticsHandler returns malformed-record reports of the last
// build.
func (api *API) GetDiagnosticsHandler(c *gin.Context) {
	diags, err := api.engine.Diagnostics()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"diagnostics": diags})
}

// LookupBrandHandler returns the URLs filed under a brand value.
func (api *API) LookupBrandHandler(c *gin.Context) {
	api.lookupAttribute(c, "brand")
}

// LookupOriginHandler returns the URLs filed under an origin value.
func (api *API) LookupOriginHandler(c *gin.Context) {
	api.lookupAttribute(c, "origin")
}

func (api *API) lookupAttribute(c *gin.Context, which string) {
	value := index.NormalizeValue(c.Query("value"))
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'value' is required"})
		return
	}

	set, err := api.engine.Indexes()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	attrIndex := set.Brand
	if which == "origin" {
		attrIndex = set.Origin
	}

	urls := attrIndex.URLs(value)
	if urls == nil {
		urls = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"value": value, "urls": urls})
}

// LookupReviewsHandler returns the review summary of one product URL.
func (api *API) LookupReviewsHandler(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'url' is required"})
		return
	}

	set, err := api.engine.Indexes()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	summary, ok := set.Reviews.Summary(url)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No review summary for URL '" + url + "'"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LookupPositionsHandler returns the positions of a token for a URL in
// one of the two positional indexes (?field=title|description).
func (api *API) LookupPositionsHandler(c *gin.Context) {
	field := c.DefaultQuery("field", "title")
	token := c.Query("token")
	url := c.Query("url")
	if token == "" || url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'token' and 'url' are required"})
		return
	}

	set, err := api.engine.Indexes()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var positions []int
	switch field {
	case "title":
		positions = set.Title.Positions(token, url)
	case "description":
		positions = set.Description.Positions(token, url)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field must be 'title' or 'description'"})
		return
	}

	if positions == nil {
		positions = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"field": field, "token": token, "url": url, "positions": positions})
}
