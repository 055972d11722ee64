package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin" // Gin web framework

	"payment_portal/internal/middleware" // Context keys
	"payment_portal/internal/validation" // Field errors
)

const (
	defaultPageSize = 20  // Page size when none is requested
	maxPageSize     = 100 // Largest page a caller may request
)

// parsePage reads page and page_size query parameters, falling back to defaults
func parsePage(c *gin.Context) (page, pageSize int) {
	page, pageSize = 1, defaultPageSize
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// totalPages rounds up
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// currentUserID returns the authenticated user ID set by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// respondError writes err as field errors when it is one, otherwise as fallback
func respondError(c *gin.Context, err error, status int, fallback string) {
	if fe, ok := validation.AsFieldErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fe})
		return
	}
	c.JSON(status, gin.H{"message": fallback})
}
