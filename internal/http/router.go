package http

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.SessionManager == nil || cfg.AuthMiddleware == nil || cfg.AuthController == nil {
		return nil, errors.New("router requires sessions, auth middleware and auth controller")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecureHeaders())
	if cfg.SecureCookies {
		router.Use(auth.HSTS())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	router.Use(cfg.SessionManager.LoadSession())
	router.Use(cfg.AuthMiddleware.Handler())

	tmpl, err := web.Templates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	router.NoRoute(func(c *gin.Context) {
		respondNotFound(c, "Page")
	})

	health := NewHealthController(cfg.Version, cfg.HealthChecks)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	router.GET("/", Home)
	cfg.AuthController.RegisterRoutes(router)

	protected := router.Group("/", auth.RequireAuth())

	if cfg.Catalog != nil {
		catalog := NewCatalogController(cfg.Catalog)
		protected.GET("/main-page", catalog.MainPage)
		protected.GET("/main-page/book/:id", catalog.BookPage)
		protected.GET("/main-page/book-genres/:genre", catalog.GenrePage)
	}

	// Mutating routes also answer GET for plain links. The session cookie is
	// SameSite Strict, so cross-site requests arrive anonymous.
	if cfg.Collection != nil {
		collection := NewCollectionController(cfg.Collection)
		protected.GET("/mybooks", collection.MyBooks)
		protected.GET("/add-book/:id", collection.AddBook)
		protected.POST("/add-book/:id", collection.AddBook)
		protected.GET("/mybooks/delete/:id", collection.DeleteBook)
		protected.POST("/mybooks/delete/:id", collection.DeleteBook)
	}

	if cfg.Notes != nil {
		notes := NewNotesController(cfg.Notes)
		protected.GET("/mynotes", notes.MyNotes)
		protected.POST("/mynotes", notes.AddNote)
		protected.GET("/mynotes/delete/:id", notes.DeleteNote)
		protected.POST("/mynotes/delete/:id", notes.DeleteNote)
	}

	if cfg.Profile != nil {
		profile := NewProfileController(cfg.Profile)
		protected.GET("/myprofile", profile.MyProfile)
		protected.POST("/myprofile", profile.UpdateProfile)
	}

	return router, nil
}
