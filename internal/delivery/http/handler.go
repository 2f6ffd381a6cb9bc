package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/celiapp/catalog/internal/domain"
	"github.com/celiapp/catalog/internal/usecase"
)

// defaultRunsLimit is the page size for GET /runs without a limit parameter
const defaultRunsLimit = 20

// CatalogService is the usecase surface the handlers depend on
type CatalogService interface {
	MapHeaders(headers []string) (*domain.SchemaReport, error)
	Process(ctx context.Context, req usecase.ProcessRequest) (*usecase.Result, *domain.RunReport, error)
	GetRun(ctx context.Context, runID string) (*domain.RunReport, error)
	ListRuns(ctx context.Context, limit int) ([]*domain.RunReport, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog CatalogService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// SchemaRequest is the body of POST /api/v1/catalog/schema
type SchemaRequest struct {
	Headers []string `json:"headers" binding:"required"`
}

// CleanRequest is the body of POST /api/v1/catalog/clean.
// Rows and BackupRows include their header row.
type CleanRequest struct {
	Rows       [][]string               `json:"rows" binding:"required"`
	BackupRows [][]string               `json:"backupRows,omitempty"`
	Options    *usecase.PipelineOptions `json:"options,omitempty"`
}

// CleanResponse is the cleaned sheet plus the run report
type CleanResponse struct {
	Rows     [][]string        `json:"rows"`
	Coverage []int             `json:"coverage"`
	Report   *domain.RunReport `json:"report"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "catalog-engine",
		"version": "1.0.0",
	})
}

// MapSchema maps a header row onto canonical fields
func (h *Handler) MapSchema(c *gin.Context) {
	if h.catalog == nil {
		h.notConfigured(c)
		return
	}

	var req SchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	report, err := h.catalog.MapHeaders(req.Headers)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CleanCatalog runs the cleaning pipeline on the posted rows
func (h *Handler) CleanCatalog(c *gin.Context) {
	if h.catalog == nil {
		h.notConfigured(c)
		return
	}

	var req CleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, report, err := h.catalog.Process(c.Request.Context(), usecase.ProcessRequest{
		Rows:       req.Rows,
		BackupRows: req.BackupRows,
		Pipeline:   req.Options,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CleanResponse{
		Rows:     result.Rows,
		Coverage: result.Coverage,
		Report:   report,
	})
}

// ListRuns returns the most recent run reports
func (h *Handler) ListRuns(c *gin.Context) {
	if h.catalog == nil {
		h.notConfigured(c)
		return
	}

	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	runs, err := h.catalog.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one run report by id
func (h *Handler) GetRun(c *gin.Context) {
	if h.catalog == nil {
		h.notConfigured(c)
		return
	}

	report, err := h.catalog.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) notConfigured(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "catalog service not configured",
	})
}

// writeError maps domain errors onto HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSchema), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
