package auth

import "taskmanager/internal/model"

// Flags are the role flags derived from an identity. They are computed on
// every request and never stored.
type Flags struct {
	IsAdmin   bool
	IsManager bool
}

// CanCreate reports whether the caller may create projects and tasks.
func (f Flags) CanCreate() bool {
	return f.IsAdmin || f.IsManager
}

// ResolveFlags derives the role flags of u. A nil user is anonymous. Groups
// must be preloaded.
func ResolveFlags(u *model.User) Flags {
	if u == nil || u.ID == 0 {
		return Flags{}
	}
	return Flags{
		IsAdmin:   IsAdminEligible(u),
		IsManager: u.InGroup(model.GroupManager),
	}
}

// IsAdminEligible reports whether u may use the admin login.
func IsAdminEligible(u *model.User) bool {
	if u == nil {
		return false
	}
	return u.IsStaff || u.IsSuperuser || u.InGroup(model.GroupAdmin)
}
