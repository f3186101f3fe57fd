package handler

import (
	"strconv"

	"reviewhub/internal/api/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy to HTTP in one place. Kinds outside
// the taxonomy come out as 500 internal errors.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.Status(err), gin.H{
		"kind":  apperr.KindOf(err),
		"error": err.Error(),
	})
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads page-number pagination parameters, clamping
// nonsense values to the defaults.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= maxPageSize {
			pageSize = parsed
		}
	}
	return page, pageSize
}
