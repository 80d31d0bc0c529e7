package model

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// StatusChoices lists the statuses in display order.
var StatusChoices = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

type Task struct {
	ID           uint       `gorm:"primaryKey"`
	Title        string     `gorm:"size:200;not null"`
	Description  string     `gorm:"type:text;not null"`
	ProjectID    uint       `gorm:"not null;index"`
	AssignedToID *uint      `gorm:"index"`
	Status       TaskStatus `gorm:"size:20;not null"`
	DueDate      *time.Time `gorm:"type:date"`
	CreatedAt    time.Time

	// AssignedTo is cleared, not cascaded, when the user is deleted.
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// BeforeCreate defaults an empty status to todo.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = StatusTodo
	}
	return nil
}

func (t *Task) String() string {
	return t.Title
}
