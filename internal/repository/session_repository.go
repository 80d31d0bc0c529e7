package repository

import (
	"context"
	"errors"
	"time"

	"taskmanager/internal/model"
	"taskmanager/internal/session"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the database session backend.
type SessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ session.Store = (*SessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Where("session_key = ? AND expires_at > ?", key, r.now()).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Data, nil
}

func (r *SessionRepository) Save(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	s := model.Session{Key: key, Data: payload, ExpiresAt: expiresAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&s).Error
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&model.Session{}, "session_key = ?", key).Error
}

// DeleteExpired removes sessions past their expiry and returns how many were removed.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", r.now()).Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
