package auth

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// Context keys set by CSRFMiddleware.
const (
	contextKeyCSRFToken = "csrf_token"
	contextKeyCSRFField = "csrf_field"
)

// CSRFMiddleware creates a Gin middleware protecting every unsafe request
// with a gorilla/csrf token. Safe methods pass through and receive a token
// for the forms they render. When secure is false requests are treated as
// plain HTTP, which skips the HTTPS-only Referer check.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(contextKeyCSRFToken, csrf.Token(r))
			c.Set(contextKeyCSRFField, csrf.TemplateField(r))
			// Session middleware runs after this and layers its context on top
			c.Request = r
			c.Next()
		}))

		req := c.Request
		if !secure {
			req = csrf.PlaintextHTTPRequest(req)
		}
		handler.ServeHTTP(c.Writer, req)
		// A rejected request must not reach the remaining handlers
		if !passed {
			c.Abort()
		}
	}
}

// csrfErrorHandler renders the rejection of a forged or stale form.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Session Expired</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Session Expired</h1>
<p>Your session has expired or the form submission was invalid.</p>
<p><a href="javascript:history.back()">Go back and try again</a></p>
</body>
</html>`))
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(contextKeyCSRFToken); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// GetCSRFField returns the hidden input carrying the CSRF token, empty when
// CSRF protection is not installed.
func GetCSRFField(c *gin.Context) template.HTML {
	if field, exists := c.Get(contextKeyCSRFField); exists {
		if f, ok := field.(template.HTML); ok {
			return f
		}
	}
	return ""
}
