package auth

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/identity"
)

// PageContext is the per-request data every page template receives as .Page.
type PageContext struct {
	LoggedIn  bool
	User      identity.User
	CSRFToken string
	CSRFField template.HTML
	Flash     *Flash
}

// NewPageContext collects the identity, CSRF token and pending flash for c.
// Building it consumes the flash.
func NewPageContext(c *gin.Context) PageContext {
	user, loggedIn := GetIdentity(c).User()
	page := PageContext{
		LoggedIn:  loggedIn,
		User:      user,
		CSRFToken: GetCSRFToken(c),
		CSRFField: GetCSRFField(c),
	}
	if sm := sessionsFrom(c); sm != nil {
		if flash, ok := sm.PopFlash(c.Request.Context()); ok {
			page.Flash = &flash
		}
	}
	return page
}

// Render executes the named template with data plus the page context.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Page"] = NewPageContext(c)
	c.HTML(status, name, data)
}

// PutFlash queues a message for the next page rendered in this session.
// It is a no-op when sessions are not installed.
func PutFlash(c *gin.Context, category, message string) {
	if sm := sessionsFrom(c); sm != nil {
		sm.PutFlash(c.Request.Context(), category, message)
	}
}
