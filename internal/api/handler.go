package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kurihiro0119/github-release-delta/internal/errors"
	"github.com/kurihiro0119/github-release-delta/internal/scanner"
	"github.com/kurihiro0119/github-release-delta/internal/storage"
)

// Handler handles API requests
type Handler struct {
	scanner *scanner.Scanner
	store   storage.Storage
}

// NewHandler creates a new API handler
func NewHandler(s *scanner.Scanner, store storage.Storage) *Handler {
	return &Handler{
		scanner: s,
		store:   store,
	}
}

// GetRepoDelta resolves the release delta for one repository
// GET /api/v1/repos/:owner/:repo/delta
func (h *Handler) GetRepoDelta(c *gin.Context) {
	fullName := c.Param("owner") + "/" + c.Param("repo")

	result, err := h.scanner.ResolveRepository(c.Request.Context(), fullName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ScanAccount resolves release deltas for all eligible repositories of an
// account
// GET /api/v1/accounts/:login/deltas
func (h *Handler) ScanAccount(c *gin.Context) {
	login := c.Param("login")

	report, err := h.scanner.ScanAccount(c.Request.Context(), login)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     report.Results,
		"failures": report.Failures,
	})
}

// GetScans returns the stored scan history for an account
// GET /api/v1/accounts/:login/scans
func (h *Handler) GetScans(c *gin.Context) {
	login := c.Param("login")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "BAD_REQUEST",
					"message": "limit must be a non-negative integer",
				},
			})
			return
		}
		limit = n
	}

	scans, err := h.store.GetScans(c.Request.Context(), login, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": scans,
	})
}

// GetLatestScan returns the most recent stored scan for an account
// GET /api/v1/accounts/:login/scans/latest
func (h *Handler) GetLatestScan(c *gin.Context) {
	login := c.Param("login")

	scan, err := h.store.GetLatestScan(c.Request.Context(), login)
	if err != nil {
		respondError(c, err)
		return
	}
	if scan == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": fmt.Sprintf("no stored scans for %s", login),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": scan,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// respondError sends an error response
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeInvalidName:
			status = http.StatusBadRequest
		case apperrors.ErrCodeForkIgnored, apperrors.ErrCodeNoVersionTag:
			status = http.StatusUnprocessableEntity
		case apperrors.ErrCodeNoRepositories:
			status = http.StatusNotFound
		case apperrors.ErrCodeAPIError:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": err.Error(),
		},
	})
}
