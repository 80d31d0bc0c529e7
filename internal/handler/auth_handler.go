package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskmanager/internal/auth"
	"taskmanager/internal/form"
	"taskmanager/internal/logging"
	"taskmanager/internal/middleware"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	users UserStore
}

func NewAuthHandler(users UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var f form.LoginForm
	if c.Request.Method != http.MethodPost {
		render(c, "login.html", gin.H{"Form": f, "Errors": form.Errors{}})
		return
	}

	errs := form.Bind(c, &f)
	if !errs.Valid() {
		flash(c, session.LevelError, "Please correct the errors below.")
		render(c, "login.html", gin.H{"Form": f, "Errors": errs})
		return
	}

	user, err := h.authenticate(c, f.Username, f.Password)
	if err != nil {
		serverError(c, err, "failed to authenticate")
		return
	}
	if user == nil {
		flash(c, session.LevelError, "Invalid username or password.")
		render(c, "login.html", gin.H{"Form": f, "Errors": errs})
		return
	}
	if f.Action == form.ActionAdmin && !auth.IsAdminEligible(user) {
		flash(c, session.LevelError, "You are not allowed to login as admin.")
		render(c, "login.html", gin.H{"Form": f, "Errors": errs})
		return
	}

	h.login(c, user)
	flash(c, session.LevelSuccess, fmt.Sprintf("Welcome back, %s!", user.Username))
	middleware.Redirect(c, "/")
}

// authenticate returns the active user matching the credentials, or nil.
// Unknown usernames still pay for a bcrypt comparison.
func (h *AuthHandler) authenticate(c *gin.Context, username, password string) (*model.User, error) {
	user, err := h.users.FindByUsername(c.Request.Context(), username)
	if errors.Is(err, repository.ErrUserNotFound) {
		auth.CheckPassword("", password)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// login binds user to a fresh session key.
func (h *AuthHandler) login(c *gin.Context, user *model.User) {
	s := middleware.SessionFrom(c)
	s.Rotate()
	s.SetUserID(user.ID)
	middleware.RotateCSRFToken(c)
	middleware.SetCurrentUser(c, user)

	now := time.Now()
	if err := h.users.UpdateLastLogin(c.Request.Context(), user.ID, now); err != nil {
		logging.Logger.WithError(err).WithField("user", user.Username).Warn("failed to record last login")
		return
	}
	user.LastLogin = &now
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ResetSession(c)
	middleware.Redirect(c, "/login/")
}

func (h *AuthHandler) Register(c *gin.Context) {
	var f form.RegisterForm
	if c.Request.Method != http.MethodPost {
		render(c, "register.html", gin.H{"Form": f, "Errors": form.Errors{}})
		return
	}

	errs := form.Bind(c, &f)
	if !errs.Has("username") {
		taken, err := h.users.UsernameTaken(c.Request.Context(), f.Username)
		if err != nil {
			serverError(c, err, "failed to check username")
			return
		}
		if taken {
			errs.Add("username", "A user with that username already exists.")
		}
	}
	f.CheckPasswords(errs)

	if !errs.Valid() {
		flash(c, session.LevelError, fixFormErrors)
		render(c, "register.html", gin.H{"Form": f, "Errors": errs})
		return
	}

	hash, err := auth.HashPassword(f.Password1)
	if err != nil {
		serverError(c, err, "failed to hash password")
		return
	}
	user := &model.User{
		Username:     f.Username,
		PasswordHash: hash,
		IsActive:     true,
	}
	err = h.users.Create(c.Request.Context(), user)
	if errors.Is(err, repository.ErrUsernameTaken) {
		// lost a race with another registration
		errs.Add("username", "A user with that username already exists.")
		flash(c, session.LevelError, fixFormErrors)
		render(c, "register.html", gin.H{"Form": f, "Errors": errs})
		return
	}
	if err != nil {
		serverError(c, err, "failed to create user")
		return
	}

	h.login(c, user)
	flash(c, session.LevelSuccess, "Account created and logged in.")
	middleware.Redirect(c, "/")
}
