package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/forms"
)

// Pages the auth flow redirects to.
const (
	HomePath     = "/"
	MainPagePath = "/main-page"
)

// Audit action names recorded by the controller.
const (
	actionRegister = "register"
	actionLogin    = "login"
	actionLogout   = "logout"
)

const loginFailedMessage = "Login Unsuccessful. Please check username and password."

// AuditLogger records authentication events. Implementations must not block.
type AuditLogger interface {
	LogAuth(userID uint, action, ipAddr, userAgent string, success bool)
}

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
func isLocalPath(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	// Protocol-relative (//evil.com), schemes and backslash bypasses
	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") || strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns path if it is local, otherwise fallback.
func sanitizeRedirectPath(path, fallback string) string {
	if isLocalPath(path) {
		return path
	}
	return fallback
}

// AuthController serves sign-up, login and logout.
type AuthController struct {
	service     *Service
	rateLimiter *RateLimiter
	audit       AuditLogger
}

// NewAuthController creates a new authentication controller. audit may be nil.
func NewAuthController(service *Service, cfg config.Auth, audit AuditLogger) *AuthController {
	return &AuthController{
		service:     service,
		rateLimiter: NewRateLimiter(cfg),
		audit:       audit,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	guestOnly := RedirectIfAuthenticated(MainPagePath)

	router.GET("/sign-up", guestOnly, ac.SignUpPage)
	router.POST("/sign-up", guestOnly, ac.SignUp)
	router.GET("/login", guestOnly, ac.LoginPage)
	router.POST("/login", guestOnly, ac.Login)
	router.GET("/logout", ac.Logout)
	router.POST("/logout", ac.Logout)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

// SignUpPage renders the registration form.
func (ac *AuthController) SignUpPage(c *gin.Context) {
	Render(c, http.StatusOK, "sign-up.html", gin.H{
		"Title": "Sign Up",
		"Form":  forms.Registration{},
	})
}

// SignUp handles the registration form submission.
func (ac *AuthController) SignUp(c *gin.Context) {
	var form forms.Registration
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	user, err := ac.service.Register(&form)
	if err != nil {
		if ve, ok := forms.AsValidationError(err); ok {
			form.Password, form.ConfirmPassword = "", ""
			Render(c, http.StatusOK, "sign-up.html", gin.H{
				"Title":  "Sign Up",
				"Form":   form,
				"Errors": ve.Messages(),
			})
			return
		}
		log.Printf("Failed to register user %q: %v", form.Username, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	ac.logAuth(c, user.ID, actionRegister, true)
	PutFlash(c, FlashSuccess, "Account for "+user.Username+" has been created!")
	c.Redirect(http.StatusFound, LoginPath)
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	Render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Next":  sanitizeRedirectPath(c.Query("next"), ""),
		"Form":  forms.Login{},
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	var form forms.Login
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	next := sanitizeRedirectPath(c.PostForm("next"), "")
	clientIP := c.ClientIP()

	renderLogin := func(status int, errs map[string]string) {
		form.Password = ""
		Render(c, status, "login.html", gin.H{
			"Title":  "Login",
			"Next":   next,
			"Form":   form,
			"Errors": errs,
		})
	}

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, form.Username); !allowed {
		c.Header("Retry-After", retryAfter.String())
		PutFlash(c, FlashDanger, "Too many login attempts. Please try again later.")
		renderLogin(http.StatusTooManyRequests, nil)
		return
	}

	id, err := ac.service.Login(c.Request, &form)
	if err != nil {
		if ve, ok := forms.AsValidationError(err); ok {
			renderLogin(http.StatusOK, ve.Messages())
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			ac.rateLimiter.RecordFailure(clientIP, form.Username)
			ac.logAuth(c, 0, actionLogin, false)
			PutFlash(c, FlashDanger, loginFailedMessage)
			renderLogin(http.StatusOK, nil)
			return
		}
		log.Printf("Login failed for %q: %v", form.Username, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, form.Username)
	ac.logAuth(c, id.UserID(), actionLogin, true)
	c.Redirect(http.StatusFound, sanitizeRedirectPath(next, MainPagePath))
}

// Logout destroys the session and redirects to the home page.
func (ac *AuthController) Logout(c *gin.Context) {
	userID := GetIdentity(c).UserID()
	if err := ac.service.Logout(c.Request); err != nil {
		log.Printf("Failed to destroy session: %v", err)
	}
	if userID != 0 {
		ac.logAuth(c, userID, actionLogout, true)
	}
	c.Redirect(http.StatusFound, HomePath)
}

func (ac *AuthController) logAuth(c *gin.Context, userID uint, action string, success bool) {
	if ac.audit == nil {
		return
	}
	ac.audit.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
}
