package http

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// HealthChecks are pinged by GET /health, keyed by the name reported
	// in the response.
	HealthChecks map[string]Pinger
	Version      string

	// Authentication. Sessions and the auth middleware are required; the
	// auth controller serves /sign-up, /login and /logout.
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthController *auth.AuthController

	// CSRF protection is enabled when the secret is non-empty
	CSRFSecret    []byte
	SecureCookies bool

	// Domain services
	Catalog    *services.CatalogService
	Collection *services.CollectionService
	Notes      *services.NotesService
	Profile    *services.ProfileService

	// UI paths. An empty TemplatesPath uses the embedded templates.
	TemplatesPath string
	StaticPath    string
}
