package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentnest/internal/domain/fault"
)

// respondError maps the core's error kinds onto HTTP statuses. Anything
// outside the taxonomy is a 500 with no detail leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fault.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, fault.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
