package middleware

import (
	"net"
	"net/http"
	"strings"

	"taskmanager/internal/logging"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// Security sets the clickjacking, sniffing and referrer headers on every
// response. Host checks are done by AllowedHosts.
func Security() gin.HandlerFunc {
	return secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "same-origin",
	})
}

var debugHosts = []string{".localhost", "127.0.0.1", "[::1]"}

// AllowedHosts rejects requests whose Host header matches none of the
// patterns. A pattern is an exact host name, a ".domain" that also matches
// every subdomain, or "*".
func AllowedHosts(patterns []string, debug bool) gin.HandlerFunc {
	if len(patterns) == 0 && debug {
		patterns = debugHosts
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}

	return func(c *gin.Context) {
		host := requestDomain(c.Request.Host)
		if host == "" || !hostAllowed(host, lowered) {
			logging.Logger.WithField("host", c.Request.Host).Warn("invalid HTTP_HOST header")
			ErrorPage(c, http.StatusBadRequest)
			return
		}
		c.Next()
	}
}

// requestDomain strips the port and a trailing dot from a Host header value.
func requestDomain(hostport string) string {
	hostport = strings.ToLower(hostport)
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
		if strings.Contains(h, ":") {
			host = "[" + h + "]"
		}
	}
	return strings.TrimSuffix(host, ".")
}

func hostAllowed(host string, patterns []string) bool {
	for _, p := range patterns {
		switch {
		case p == "*":
			return true
		case strings.HasPrefix(p, "."):
			if host == p[1:] || strings.HasSuffix(host, p) {
				return true
			}
		case host == p:
			return true
		}
	}
	return false
}
