package middleware

import (
	"context"
	"fmt"
	"net/http"

	"alumni/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const CheckUserKey = "user"

// SessionUserKey is the only identity value kept in the session.
const SessionUserKey = "user_id"

// IdentityResolver looks up the user behind a session id. A nil user with a
// nil error means there is no identity.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser retrieves user from session and sets to context
func LoadUser(users IdentityResolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := SessionUserID(session)

		if userID != 0 {
			user, err := users.CurrentIdentity(c.Request.Context(), userID)
			if err != nil {
				log.WithError(err).WithField("user_id", userID).Warn("resolve session identity")
			}
			if user != nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired redirects to the login page with a notice when no identity was
// resolved for the request.
func AuthRequired(notice string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			AddFlash(c, notice)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity resolved by LoadUser.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// SessionUserID reads the stored user id, tolerating the numeric types the
// session codecs may hand back.
func SessionUserID(session sessions.Session) uint {
	switch v := session.Get(SessionUserKey).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	case uint64:
		return uint(v)
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

// AddFlash queues a one-shot notice for the next rendered page. A failed
// save is attached to the request and reported by RequestLogger.
func AddFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg)
	saveSession(c, session)
}

// Flashes drains the queued notices.
func Flashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	saveSession(c, session)

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func saveSession(c *gin.Context, session sessions.Session) {
	if err := session.Save(); err != nil {
		_ = c.Error(fmt.Errorf("save session: %w", err))
	}
}
