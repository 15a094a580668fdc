package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/c-victorino/dishcord-web-app/internal/models"
	"github.com/c-victorino/dishcord-web-app/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie that carries the session token.
const SessionCookie = "blog_session"

const currentUserKey = "currentUser"

// UserLookup resolves a session user id to the stored user document.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Session parses the session cookie when present and puts the current
// user into the request context. It never rejects on its own; routes
// that need a login stack RequireLogin on top.
func Session(jwtSecret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user placed by Session.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
