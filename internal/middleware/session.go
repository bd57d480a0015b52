package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionName is the cookie that carries the session.
const SessionName = "alumni_session"

// SessionConfig selects and tunes the session backend.
type SessionConfig struct {
	// Backend is "gorm" (server-side rows, the cookie only holds a signed id)
	// or "cookie" (the whole payload lives in the signed cookie).
	Backend string
	Secret  []byte
	MaxAge  int
	Secure  bool
	// Cleanup starts the gorm backend's expired-row sweeper.
	Cleanup bool
}

// NewSessionStore builds the configured store. With the gorm backend a
// logged-out session cannot be revived by replaying an older cookie.
func NewSessionStore(db *gorm.DB, cfg SessionConfig) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.Backend {
	case "gorm", "":
		store = gormsessions.NewStore(db, cfg.Cleanup, cfg.Secret)
	case "cookie":
		store = cookie.NewStore(cfg.Secret)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	store.Options(cfg.CookieOptions())
	return store, nil
}

// CookieOptions are the attributes of every session cookie.
func (cfg SessionConfig) CookieOptions() sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RenewSession discards the current session and its server-side entry, so
// the next Save issues a new session id carrying only what is set afterwards.
func RenewSession(c *gin.Context, opts sessions.Options) error {
	session := sessions.Default(c)
	session.Clear()

	expired := opts
	expired.MaxAge = -1
	session.Options(expired)
	if err := session.Save(); err != nil {
		return fmt.Errorf("drop session: %w", err)
	}

	session.Options(opts)
	return nil
}
