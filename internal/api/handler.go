package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
)

const maxListLimit = 100

// Handler handles API requests
type Handler struct {
	storage storage.Storage
}

// NewHandler creates a new API handler
func NewHandler(store storage.Storage) *Handler {
	return &Handler{
		storage: store,
	}
}

// RunResponse is a snapshot run together with its document
type RunResponse struct {
	*domain.SnapshotRun
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`
}

// GetLatestSnapshot returns the latest snapshot document as written to disk
// GET /api/v1/orgs/:org/repos/:repo/snapshot
func (h *Handler) GetLatestSnapshot(c *gin.Context) {
	org := c.Param("org")
	repo := c.Param("repo")

	run, err := h.storage.GetLatestSnapshot(c.Request.Context(), org, repo)
	if err != nil {
		respondError(c, err)
		return
	}

	document, err := storage.MarshalDocument(run.Snapshot)
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to encode snapshot", err))
		return
	}

	c.Header("X-Snapshot-Id", run.ID)
	c.Data(http.StatusOK, "application/json; charset=utf-8", document)
}

// ListSnapshots returns the run history of a repository with section reports
// GET /api/v1/orgs/:org/repos/:repo/snapshots
func (h *Handler) ListSnapshots(c *gin.Context) {
	org := c.Param("org")
	repo := c.Param("repo")

	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	runs, err := h.storage.ListSnapshots(c.Request.Context(), org, repo, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
	})
}

// GetSnapshot returns one run with its document
// GET /api/v1/snapshots/:id
func (h *Handler) GetSnapshot(c *gin.Context) {
	run, err := h.storage.GetSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": RunResponse{SnapshotRun: run, Snapshot: run.Snapshot},
	})
}

// HealthCheck returns the health status
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return storage.DefaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, apperrors.NewBadRequestError("limit must be a positive integer")
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}

func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeBadRequest, apperrors.ErrCodeMissingRequiredContext:
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			logging.From(c.Request.Context()).Error("Request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logging.From(c.Request.Context()).Error("Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
