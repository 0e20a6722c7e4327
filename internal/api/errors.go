package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"zonewarden.io/internal/storage"
)

// APIErrorResponse represents a standard error response format
type APIErrorResponse struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, APIErrorResponse{
		StatusCode: status,
		ErrorCode:  code,
		Message:    message,
		Details:    details,
	})
}

// writeStoreError maps storage errors onto HTTP responses. Rejected records are not
// handled here: their ValidationResult is the response body.
func writeStoreError(c *gin.Context, err error) {
	var conflict *storage.ZoneConflictError
	var invalid *storage.InvalidZoneNameError
	var refused *storage.DeleteRefusedError

	switch {
	case errors.Is(err, storage.ErrZoneNotFound):
		abortWithError(c, http.StatusNotFound, "zone_not_found", "Zone not found", "")
	case errors.Is(err, storage.ErrRecordNotFound):
		abortWithError(c, http.StatusNotFound, "record_not_found", "Record not found", "")
	case errors.Is(err, storage.ErrZoneExists):
		abortWithError(c, http.StatusConflict, "zone_exists", "A zone with this name already exists", "")
	case errors.As(err, &conflict):
		abortWithError(c, http.StatusConflict, "zone_overlap", conflict.Error(), conflict.ConflictingZone)
	case errors.As(err, &invalid):
		abortWithError(c, http.StatusUnprocessableEntity, "invalid_zone_name", invalid.Err.Error(), invalid.Name)
	case errors.As(err, &refused):
		abortWithError(c, http.StatusConflict, "delete_refused", refused.Reason, "")
	case errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusGatewayTimeout, "timeout", "The request timed out", "")
	default:
		abortWithError(c, http.StatusInternalServerError, "internal_error", "Internal server error", "")
	}
}
