package ui

import (
	"errors"
	"log"
	"net/http"

	"tribunal/domain/core"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to an HTTP status by error kind.
// Mapping is done with errors.Is against the sentinel errors only; the
// error text is never inspected.
func respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, core.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not authorized to access this case"})
	case core.IsConflictError(err):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case core.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case errors.Is(err, core.ErrOracleUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Judgment service is unavailable, please retry"})
	case errors.Is(err, core.ErrOracleResponseInvalid):
		c.JSON(http.StatusBadGateway, gin.H{"detail": "Judgment service returned an invalid response, please retry"})
	default:
		log.Printf("[API] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
