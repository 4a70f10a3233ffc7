package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/apperrors"
)

// respondError maps workflow errors onto HTTP status codes. Delivery
// failures are handled by the individual handlers because they carry
// the already-persisted record in the response.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{"error": "Duplicate value for a unique field"})
	default:
		logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// respondDelivery reports a mutation that persisted but whose
// notification failed to deliver. The state change is real; the caller
// must see the delivery failure distinctly.
func respondDelivery(c *gin.Context, logger *zap.Logger, err error, payload gin.H) {
	logger.Warn("Mutation persisted but notification delivery failed", zap.Error(err))
	payload["error"] = "Saved, but the notification could not be delivered"
	payload["saved"] = true
	c.JSON(http.StatusBadGateway, payload)
}
