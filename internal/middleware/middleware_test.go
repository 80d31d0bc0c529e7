package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/session"
	"taskmanager/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uint]*model.User

func (f fakeUsers) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func setupRouter(users fakeUsers) (*gin.Engine, *session.MemoryStore) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())

	store := session.NewMemoryStore()
	manager := session.NewManager(store, auth.NewTokenSigner("test-secret-key", time.Hour), time.Hour)

	r.Use(middleware.Sessions(manager, false), middleware.CSRF(false), middleware.CurrentUser(users))

	// Test-only hook that logs a user in.
	r.GET("/login-as/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		middleware.SessionFrom(c).SetUserID(uint(id))
		middleware.Redirect(c, "/")
	})
	r.GET("/token", func(c *gin.Context) {
		_ = middleware.SaveSession(c)
		c.String(http.StatusOK, middleware.CSRFToken(c))
	})
	r.GET("/flash", func(c *gin.Context) {
		middleware.SessionFrom(c).AddMessage(session.LevelInfo, "hello")
		middleware.Redirect(c, "/token")
	})
	r.POST("/submit", func(c *gin.Context) {
		c.String(http.StatusOK, "accepted")
	})

	protected := r.Group("/", middleware.LoginRequired())
	protected.GET("/private", func(c *gin.Context) {
		c.String(http.StatusOK, "hello "+middleware.CurrentUserFrom(c).Username)
	})
	return r, store
}

func findCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range resp.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	ck := findCookie(resp, middleware.SessionCookieName)
	if ck == nil {
		t.Fatalf("no %s cookie in response", middleware.SessionCookieName)
	}
	return ck
}

func TestCSRF_AnonymousGetsTokenCookieWithoutSession(t *testing.T) {
	router, store := setupRouter(fakeUsers{})

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/token", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.Body.String(), 32)
		ck := findCookie(resp, middleware.CSRFCookieName)
		require.NotNil(t, ck)
		assert.Equal(t, resp.Body.String(), ck.Value)
		assert.Nil(t, findCookie(resp, middleware.SessionCookieName))
	}
	assert.Equal(t, 0, store.Len())
}

func TestCSRF_KeepsExistingToken(t *testing.T) {
	router, _ := setupRouter(fakeUsers{})
	token := middleware.NewCSRFToken()

	req, _ := http.NewRequest(http.MethodGet, "/token", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: token})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, token, resp.Body.String())
	assert.Nil(t, findCookie(resp, middleware.CSRFCookieName))
}

func TestSessions_MessagesOnlyLiveUntilShown(t *testing.T) {
	router, store := setupRouter(fakeUsers{})

	req, _ := http.NewRequest(http.MethodGet, "/flash", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusFound, resp.Code)
	ck := sessionCookie(t, resp)
	assert.Equal(t, 1, store.Len())

	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	manager := session.NewManager(store, auth.NewTokenSigner("test-secret-key", time.Hour), time.Hour)
	r.Use(middleware.Sessions(manager, false))
	r.GET("/show", func(c *gin.Context) {
		msgs := middleware.SessionFrom(c).PopMessages()
		_ = middleware.SaveSession(c)
		c.String(http.StatusOK, msgs[0].Text)
	})

	req, _ = http.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, "hello", resp.Body.String())
	assert.Equal(t, 0, store.Len())
	expired := sessionCookie(t, resp)
	assert.Less(t, expired.MaxAge, 0)
}

func TestCSRF_RejectsMissingToken(t *testing.T) {
	router, _ := setupRouter(fakeUsers{})

	req, _ := http.NewRequest(http.MethodPost, "/submit", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "CSRF verification failed")
}

func TestCSRF_AcceptsFormFieldAndHeader(t *testing.T) {
	router, _ := setupRouter(fakeUsers{})

	req, _ := http.NewRequest(http.MethodGet, "/token", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	token := resp.Body.String()
	ck := findCookie(resp, middleware.CSRFCookieName)
	require.NotNil(t, ck)

	form := url.Values{middleware.CSRFFormField: {token}}
	req, _ = http.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	req, _ = http.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(middleware.CSRFHeader, token)
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	req, _ = http.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(middleware.CSRFHeader, "wrong")
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSessions_TamperedCookieStartsFreshSession(t *testing.T) {
	router, _ := setupRouter(fakeUsers{})

	req, _ := http.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Less(t, sessionCookie(t, resp).MaxAge, 0)
}

func TestLoginRequired_RedirectsAnonymous(t *testing.T) {
	router, _ := setupRouter(fakeUsers{})

	req, _ := http.NewRequest(http.MethodGet, "/private?tab=1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/login/?next=%2Fprivate%3Ftab%3D1", resp.Header().Get("Location"))
}

func TestCurrentUser_ResolvesSessionUser(t *testing.T) {
	users := fakeUsers{1: {ID: 1, Username: "alice", IsActive: true}}
	router, _ := setupRouter(users)

	req, _ := http.NewRequest(http.MethodGet, "/login-as/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusFound, resp.Code)
	ck := sessionCookie(t, resp)

	req, _ = http.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "hello alice", resp.Body.String())
}

func TestCurrentUser_InactiveUserIsAnonymous(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Username: "alice", IsActive: true},
		2: {ID: 2, Username: "bob", IsActive: false},
	}
	router, _ := setupRouter(users)

	req, _ := http.NewRequest(http.MethodGet, "/login-as/2", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	ck := sessionCookie(t, resp)

	req, _ = http.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Header().Get("Location"), "/login/"))
}

func TestCurrentUser_DeletedUserIsAnonymous(t *testing.T) {
	users := fakeUsers{1: {ID: 1, Username: "alice", IsActive: true}}
	router, _ := setupRouter(users)

	req, _ := http.NewRequest(http.MethodGet, "/login-as/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	ck := sessionCookie(t, resp)

	delete(users, 1)

	req, _ = http.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(ck)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusFound, resp.Code)
}

func hostRouter(hosts []string, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(web.MustTemplates())
	r.Use(middleware.Security(), middleware.AllowedHosts(hosts, debug))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAllowedHosts(t *testing.T) {
	tests := []struct {
		name   string
		hosts  []string
		debug  bool
		host   string
		status int
	}{
		{"exact match", []string{"example.com"}, false, "example.com", http.StatusOK},
		{"exact match with port", []string{"example.com"}, false, "example.com:8080", http.StatusOK},
		{"case insensitive", []string{"example.com"}, false, "EXAMPLE.com", http.StatusOK},
		{"subdomain rejected for exact", []string{"example.com"}, false, "www.example.com", http.StatusBadRequest},
		{"dot pattern matches domain", []string{".example.com"}, false, "example.com", http.StatusOK},
		{"dot pattern matches subdomain", []string{".example.com"}, false, "a.b.example.com", http.StatusOK},
		{"dot pattern rejects lookalike", []string{".example.com"}, false, "badexample.com", http.StatusBadRequest},
		{"wildcard", []string{"*"}, false, "anything.test", http.StatusOK},
		{"empty list without debug", nil, false, "localhost", http.StatusBadRequest},
		{"empty list with debug allows localhost", nil, true, "localhost:8000", http.StatusOK},
		{"empty list with debug allows ipv6 loopback", nil, true, "[::1]:8000", http.StatusOK},
		{"empty list with debug rejects others", nil, true, "example.com", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := hostRouter(tt.hosts, tt.debug)
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestSecurity_Headers(t *testing.T) {
	router := hostRouter([]string{"*"}, false)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "same-origin", resp.Header().Get("Referrer-Policy"))
}
