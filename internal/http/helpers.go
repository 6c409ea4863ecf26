package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/services"
)

// renderError renders the error page with the given status.
func renderError(c *gin.Context, status int, message string) {
	auth.Render(c, status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

// respondNotFound renders a 404 page.
func respondNotFound(c *gin.Context, resource string) {
	renderError(c, http.StatusNotFound, resource+" not found")
}

// respondForbidden renders a 403 page.
func respondForbidden(c *gin.Context) {
	renderError(c, http.StatusForbidden, "You are not allowed to do that.")
}

// respondInternalError logs the error and renders a 500 page.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	renderError(c, http.StatusInternalServerError, "Something went wrong on our side.")
}

// respondServiceError maps a service error to its page. resource names the
// missing entity in 404 messages.
func respondServiceError(c *gin.Context, err error, resource, context string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, services.ErrForbidden):
		respondForbidden(c)
	case errors.Is(err, services.ErrAuthRequired):
		c.Redirect(http.StatusFound, auth.LoginPath)
		c.Abort()
	default:
		respondInternalError(c, err, context)
	}
}

// parseIDParam parses a positive numeric path parameter. A malformed id
// cannot name any row, so it renders 404.
func parseIDParam(c *gin.Context, param, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		respondNotFound(c, resource)
		return 0, false
	}
	return uint(id), true
}
