package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Email        string    `gorm:"size:254"`
	IsStaff      bool      `gorm:"not null"`
	IsSuperuser  bool      `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	DateJoined   time.Time `gorm:"autoCreateTime"`
	LastLogin    *time.Time

	Groups []Group `gorm:"many2many:user_groups"`
}

// InGroup reports whether the user is a member of the named group. Groups
// must be preloaded.
func (u *User) InGroup(name string) bool {
	if u == nil {
		return false
	}
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (u *User) String() string {
	if u == nil {
		return ""
	}
	return u.Username
}
