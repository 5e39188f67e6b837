package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Validation failures and
// state conflicts carry the service message; anything unexpected gets a
// generic message so internals never leak to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("State conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &appErr):
		logger.Warn("Application error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	default:
		logger.Error("Unexpected service error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// parseDateParam parses an optional YYYY-MM-DD query parameter, returning
// fallback when the parameter is absent.
func parseDateParam(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}
