package middleware

import (
	"net/http"

	"taskmanager/internal/logging"

	"github.com/gin-gonic/gin"
)

// PageData returns the values every page template needs: the current user,
// role flags, CSRF token and the queued messages, which are drained.
func PageData(c *gin.Context) gin.H {
	data := gin.H{
		"User":      CurrentUserFrom(c),
		"Flags":     FlagsFrom(c),
		"CSRFToken": CSRFToken(c),
		"Messages":  nil,
	}
	if s := SessionFrom(c); s != nil {
		data["Messages"] = s.PopMessages()
	}
	return data
}

// Render saves the session and renders the named page.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if err := SaveSession(c); err != nil {
		logging.Logger.WithError(err).Error("failed to save session")
		ErrorPage(c, http.StatusInternalServerError)
		return
	}
	c.HTML(status, name, data)
}

// Redirect saves the session and redirects with 302.
func Redirect(c *gin.Context, location string) {
	if err := SaveSession(c); err != nil {
		logging.Logger.WithError(err).Error("failed to save session")
		ErrorPage(c, http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, location)
}

var errorPages = map[int][2]string{
	http.StatusBadRequest:          {"Bad Request (400)", "The request could not be processed."},
	http.StatusForbidden:           {"Forbidden (403)", "CSRF verification failed. Request aborted."},
	http.StatusNotFound:            {"Not Found", "The requested resource was not found on this server."},
	http.StatusInternalServerError: {"Server Error (500)", "Something went wrong. Please try again later."},
}

// ErrorPage renders the error page for status and aborts the chain.
func ErrorPage(c *gin.Context, status int) {
	page, ok := errorPages[status]
	if !ok {
		page = [2]string{http.StatusText(status), ""}
	}
	data := PageData(c)
	data["Title"] = page[0]
	data["Detail"] = page[1]

	// A failed save is not worth a second error page.
	_ = SaveSession(c)
	c.HTML(status, "error.html", data)
	c.Abort()
}
