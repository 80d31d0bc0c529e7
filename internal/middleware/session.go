package middleware

import (
	"net/http"

	"taskmanager/internal/logging"
	"taskmanager/internal/session"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "sessionid"

const sessionContextKey = "session"

type sessionState struct {
	manager *session.Manager
	session *session.Session
	secure  bool
	// hadCookie is set while the client still holds a session cookie.
	hadCookie bool
}

// Sessions loads the session named by the cookie and saves it once the
// handler chain is done, unless a handler already did so.
func Sessions(manager *session.Manager, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookieName)
		s, err := manager.Load(c.Request.Context(), cookie)
		if err != nil {
			logging.Logger.WithError(err).Error("failed to load session")
			ErrorPage(c, http.StatusInternalServerError)
			return
		}
		c.Set(sessionContextKey, &sessionState{manager: manager, session: s, secure: secureCookie, hadCookie: cookie != ""})

		c.Next()

		if err := SaveSession(c); err != nil {
			logging.Logger.WithError(err).Error("failed to save session")
		}
	}
}

// SessionFrom returns the request session, or nil outside the Sessions
// middleware.
func SessionFrom(c *gin.Context) *session.Session {
	if st := stateFrom(c); st != nil {
		return st.session
	}
	return nil
}

func stateFrom(c *gin.Context) *sessionState {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	st, _ := v.(*sessionState)
	return st
}

// SaveSession writes pending session changes to the store and sets the
// cookie. A session left without data loses its cookie instead. It must run
// before the response body is written.
func SaveSession(c *gin.Context) error {
	st := stateFrom(c)
	if st == nil {
		return nil
	}
	value, err := st.manager.Save(c.Request.Context(), st.session)
	if err != nil {
		return err
	}
	expire := value == "" && st.hadCookie && st.session.IsNew()
	if value == "" && !expire {
		return nil
	}
	if c.Writer.Written() {
		logging.Logger.WithField("path", c.Request.URL.Path).Warn("session saved after response was written, cookie not sent")
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	if expire {
		c.SetCookie(SessionCookieName, "", -1, "/", "", st.secure, true)
		st.hadCookie = false
		return nil
	}
	c.SetCookie(SessionCookieName, value, int(st.manager.TTL().Seconds()), "/", "", st.secure, true)
	st.hadCookie = true
	return nil
}

// ResetSession drops everything stored in the session, moves it to a new
// key and issues a new CSRF token.
func ResetSession(c *gin.Context) {
	if s := SessionFrom(c); s != nil {
		s.Flush()
	}
	RotateCSRFToken(c)
}
