package auth

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// Session data keys
const (
	SessionKeyUserID        = "user_id"
	SessionKeyFlashMessage  = "flash_message"
	SessionKeyFlashCategory = "flash_category"
)

// Flash categories understood by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager.
// The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	// Non-persistent by default; "remember me" upgrades the cookie per login
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession binds the session to user after successful authentication.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User, remember bool) error {
	ctx := r.Context()

	// Renew token to prevent session fixation
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}

	sm.Put(ctx, SessionKeyUserID, int(user.ID))
	sm.RememberMe(ctx, remember)

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// IsAuthenticated returns true if the request has a session bound to a user.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// PutFlash stores a message for the next rendered page.
func (sm *SessionManager) PutFlash(ctx context.Context, category, message string) {
	sm.Put(ctx, SessionKeyFlashCategory, category)
	sm.Put(ctx, SessionKeyFlashMessage, message)
}

// PopFlash returns and clears the pending flash message, if any.
func (sm *SessionManager) PopFlash(ctx context.Context) (Flash, bool) {
	message := sm.PopString(ctx, SessionKeyFlashMessage)
	category := sm.PopString(ctx, SessionKeyFlashCategory)
	if message == "" {
		return Flash{}, false
	}
	if category == "" {
		category = FlashInfo
	}
	return Flash{Category: category, Message: message}, true
}
