package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"taskmanager/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CSRFCookieName = "csrftoken"
	CSRFFormField  = "csrfmiddlewaretoken"
	CSRFHeader     = "X-CSRFToken"
)

// One year, the lifetime Django gives the same cookie.
const csrfCookieMaxAge = 31449600

const csrfContextKey = "csrf"

type csrfState struct {
	token  string
	secure bool
}

// CSRF keeps a token in its own cookie and rejects unsafe requests that do
// not echo it back in the form or the X-CSRFToken header. Anonymous visitors
// get a token without getting a stored session.
func CSRF(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &csrfState{secure: secureCookie}
		st.token, _ = c.Cookie(CSRFCookieName)
		c.Set(csrfContextKey, st)

		if !validCSRFToken(st.token) {
			st.token = ""
			setCSRFCookie(c, st)
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			sent = c.PostForm(CSRFFormField)
		}
		if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(st.token)) != 1 {
			logging.Logger.WithField("path", c.Request.URL.Path).Warn("CSRF verification failed")
			ErrorPage(c, http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// CSRFToken returns the token forms must echo back, or "" outside the CSRF
// middleware.
func CSRFToken(c *gin.Context) string {
	if st := csrfFrom(c); st != nil {
		return st.token
	}
	return ""
}

// RotateCSRFToken replaces the token, on login and logout.
func RotateCSRFToken(c *gin.Context) {
	if st := csrfFrom(c); st != nil {
		setCSRFCookie(c, st)
	}
}

// NewCSRFToken returns a random 32 character hex token.
func NewCSRFToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func csrfFrom(c *gin.Context) *csrfState {
	v, ok := c.Get(csrfContextKey)
	if !ok {
		return nil
	}
	st, _ := v.(*csrfState)
	return st
}

// setCSRFCookie issues a new token. Headers are not flushed until the body is
// written, so this is safe anywhere before rendering.
func setCSRFCookie(c *gin.Context, st *csrfState) {
	st.token = NewCSRFToken()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFCookieName, st.token, csrfCookieMaxAge, "/", "", st.secure, false)
}

func validCSRFToken(token string) bool {
	if len(token) != 32 {
		return false
	}
	for _, r := range token {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
