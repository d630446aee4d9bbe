package repository

import (
	"context"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"gorm.io/gorm"
)

type PositionsRepository interface {
	AddPosition(ctx context.Context, position *models.Position) error
	ListPositions(ctx context.Context) ([]models.Position, error)
}

type positionsRepository struct {
	db *gorm.DB
}

func NewPositionsRepository(db *gorm.DB) PositionsRepository {
	return &positionsRepository{db: db}
}

func (r *positionsRepository) AddPosition(ctx context.Context, position *models.Position) error {
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *positionsRepository) ListPositions(ctx context.Context) ([]models.Position, error) {
	positions := make([]models.Position, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&positions).Error; err != nil {
		return nil, dbError(err)
	}
	return positions, nil
}
