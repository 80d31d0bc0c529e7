package form

import (
	"strings"

	"taskmanager/internal/auth"
)

const (
	ActionLogin = "login"
	ActionAdmin = "admin"
)

type LoginForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Password string `form:"password" binding:"required"`
	Action   string `form:"action"`
}

func (f *LoginForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
	if f.Action != ActionAdmin {
		f.Action = ActionLogin
	}
}

type RegisterForm struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

func (f *RegisterForm) normalize() {
	f.Username = strings.TrimSpace(f.Username)
}

// CheckPasswords adds mismatch and strength errors to errs.
func (f *RegisterForm) CheckPasswords(errs Errors) {
	if errs.Has("password1") || errs.Has("password2") {
		return
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
		return
	}
	for _, problem := range auth.ValidatePassword(f.Password2, f.Username) {
		errs.Add("password2", problem)
	}
}
