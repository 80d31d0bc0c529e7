package model

import (
	"time"
)

type Project struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text;not null"`
	ManagerID   *uint     `gorm:"index"`
	CreatedAt   time.Time `gorm:"index"`

	// Manager is cleared, not cascaded, when the user is deleted.
	Manager *User  `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Tasks   []Task `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (p *Project) String() string {
	return p.Name
}
