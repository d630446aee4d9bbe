package repository

import (
	"context"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"gorm.io/gorm"
)

type SessionsRepository interface {
	StoreSession(ctx context.Context, session *models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionsRepository struct {
	db *gorm.DB
}

func NewSessionsRepository(db *gorm.DB) SessionsRepository {
	return &sessionsRepository{db: db}
}

func (r *sessionsRepository) StoreSession(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(session).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *sessionsRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&session).Error; err != nil {
		return nil, dbError(err)
	}
	return &session, nil
}

func (r *sessionsRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	result := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.Session{})
	if result.Error != nil {
		return dbError(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *sessionsRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	if result.Error != nil {
		return 0, dbError(result.Error)
	}
	return result.RowsAffected, nil
}
