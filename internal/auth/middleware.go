package auth

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/identity"
)

// ContextKeyIdentity holds the identity.Identity resolved for the request.
const ContextKeyIdentity = "auth_identity"

// LoginPath is where anonymous callers are sent.
const LoginPath = "/login"

// Middleware resolves the caller's identity from the session.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Handler resolves the identity of every request. It never rejects a
// request; routes that need a user add RequireAuth.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.service.CurrentIdentity(c.Request)
		if err != nil {
			log.Printf("Failed to resolve session identity: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		SetIdentity(c, id)
		c.Next()
	}
}

// RequireAuth redirects anonymous callers to the login page, remembering
// where they were headed. It relies on Middleware.Handler having run.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c).IsAuthenticated() {
			c.Next()
			return
		}
		target := LoginPath
		if c.Request.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// RedirectIfAuthenticated sends signed-in callers to target instead of the
// guest-only page they asked for.
func RedirectIfAuthenticated(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetIdentity stores id on the context.
func SetIdentity(c *gin.Context, id identity.Identity) {
	c.Set(ContextKeyIdentity, id)
}

// GetIdentity returns the identity resolved for the request, Anonymous if none was.
func GetIdentity(c *gin.Context) identity.Identity {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Anonymous()
}
