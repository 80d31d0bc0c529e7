package model

// Well-known group names used for role assignment.
const (
	GroupAdmin   = "Admin"
	GroupManager = "Manager"
)

type Group struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:150;uniqueIndex;not null"`
}
