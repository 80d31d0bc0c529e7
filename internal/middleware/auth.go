package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"taskmanager/internal/auth"
	"taskmanager/internal/logging"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

// UserLoader resolves session user ids.
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// CurrentUser resolves the session's user id to an active user with groups
// loaded. Sessions pointing at deleted or inactive users are reset.
func CurrentUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || s.UserID() == 0 {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), s.UserID())
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			ResetSession(c)
		case err != nil:
			logging.Logger.WithError(err).Error("failed to load session user")
			ErrorPage(c, http.StatusInternalServerError)
			return
		case !user.IsActive:
			ResetSession(c)
		default:
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// CurrentUserFrom returns the authenticated user, or nil for anonymous
// requests.
func CurrentUserFrom(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// SetCurrentUser marks the request as authenticated by u.
func SetCurrentUser(c *gin.Context, u *model.User) {
	c.Set(userContextKey, u)
}

// FlagsFrom resolves the role flags of the current user.
func FlagsFrom(c *gin.Context) auth.Flags {
	return auth.ResolveFlags(CurrentUserFrom(c))
}

// LoginRequired sends anonymous requests to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserFrom(c) != nil {
			c.Next()
			return
		}
		if err := SaveSession(c); err != nil {
			logging.Logger.WithError(err).Error("failed to save session")
		}
		c.Redirect(http.StatusFound, "/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}
