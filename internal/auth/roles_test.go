package auth_test

import (
	"testing"

	"taskmanager/internal/auth"
	"taskmanager/internal/model"

	"github.com/stretchr/testify/assert"
)

func userWith(staff, superuser bool, groups ...string) *model.User {
	u := &model.User{ID: 7, Username: "someone", IsStaff: staff, IsSuperuser: superuser, IsActive: true}
	for i, g := range groups {
		u.Groups = append(u.Groups, model.Group{ID: uint(i + 1), Name: g})
	}
	return u
}

func TestResolveFlags(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want auth.Flags
	}{
		{name: "anonymous", user: nil, want: auth.Flags{}},
		{name: "unsaved user is anonymous", user: &model.User{IsSuperuser: true}, want: auth.Flags{}},
		{name: "plain user", user: userWith(false, false), want: auth.Flags{}},
		{name: "staff", user: userWith(true, false), want: auth.Flags{IsAdmin: true}},
		{name: "superuser", user: userWith(false, true), want: auth.Flags{IsAdmin: true}},
		{name: "admin group", user: userWith(false, false, model.GroupAdmin), want: auth.Flags{IsAdmin: true}},
		{name: "manager group", user: userWith(false, false, model.GroupManager), want: auth.Flags{IsManager: true}},
		{name: "admin and manager", user: userWith(false, false, model.GroupAdmin, model.GroupManager), want: auth.Flags{IsAdmin: true, IsManager: true}},
		{name: "staff manager", user: userWith(true, false, model.GroupManager), want: auth.Flags{IsAdmin: true, IsManager: true}},
		{name: "unrelated group", user: userWith(false, false, "Reviewers"), want: auth.Flags{}},
		{name: "group names are case sensitive", user: userWith(false, false, "admin", "manager"), want: auth.Flags{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.ResolveFlags(tt.user))
		})
	}
}

func TestFlags_CanCreate(t *testing.T) {
	assert.False(t, auth.Flags{}.CanCreate())
	assert.True(t, auth.Flags{IsAdmin: true}.CanCreate())
	assert.True(t, auth.Flags{IsManager: true}.CanCreate())
}

func TestIsAdminEligible(t *testing.T) {
	assert.False(t, auth.IsAdminEligible(nil))
	assert.False(t, auth.IsAdminEligible(userWith(false, false, model.GroupManager)))
	assert.True(t, auth.IsAdminEligible(userWith(false, false, model.GroupAdmin)))
	assert.True(t, auth.IsAdminEligible(userWith(true, false)))
}
