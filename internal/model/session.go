package model

import (
	"time"
)

// Session is a row of the database session backend.
type Session struct {
	Key       string    `gorm:"column:session_key;primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
