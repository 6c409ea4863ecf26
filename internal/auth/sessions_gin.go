package auth

import (
	"bufio"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

const sessionsKey = "bookshelf.sessions"

// cookieWriter commits the session and sets its cookie right before the
// first byte of the response goes out. Gin writes headers lazily, so
// scs.LoadAndSave cannot be used as-is.
type cookieWriter struct {
	gin.ResponseWriter
	sm        *SessionManager
	req       *http.Request
	committed bool
}

func (w *cookieWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true

	ctx := w.req.Context()
	status := w.sm.Status(ctx)
	if status == scs.Destroyed {
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
		return
	}
	if status != scs.Modified {
		return
	}
	token, expiry, err := w.sm.Commit(ctx)
	if err != nil {
		log.Printf("session commit failed: %v", err)
		return
	}
	w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
}

func (w *cookieWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

func (w *cookieWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

// LoadSession loads the caller's session into the request context and
// saves it when the handler chain is done. Install it before anything
// that reads sessions or flashes.
func (sm *SessionManager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionsKey, sm)

		w := &cookieWriter{ResponseWriter: c.Writer, sm: sm, req: c.Request}
		c.Writer = w
		c.Next()

		// redirects and empty bodies may never touch the writer
		w.commit()
	}
}

// sessionsFrom returns the manager installed by LoadSession, or nil.
func sessionsFrom(c *gin.Context) *SessionManager {
	v, ok := c.Get(sessionsKey)
	if !ok {
		return nil
	}
	sm, _ := v.(*SessionManager)
	return sm
}
