package repository

import (
	"context"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HoldingsRepository interface {
	GetHolding(ctx context.Context, name string) (*models.Holding, error)
	// GetHoldingForUpdate row-locks the holding until the surrounding
	// transaction ends. SQLite ignores the lock.
	GetHoldingForUpdate(ctx context.Context, name string) (*models.Holding, error)
	AddHolding(ctx context.Context, holding *models.Holding) error
	UpdateHolding(ctx context.Context, holding *models.Holding) error
	DeleteHolding(ctx context.Context, name string) error
	ListHoldings(ctx context.Context) ([]models.Holding, error)
}

type holdingsRepository struct {
	db *gorm.DB
}

func NewHoldingsRepository(db *gorm.DB) HoldingsRepository {
	return &holdingsRepository{db: db}
}

func (r *holdingsRepository) GetHolding(ctx context.Context, name string) (*models.Holding, error) {
	return r.get(r.db.WithContext(ctx), name)
}

func (r *holdingsRepository) GetHoldingForUpdate(ctx context.Context, name string) (*models.Holding, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), name)
}

func (r *holdingsRepository) get(db *gorm.DB, name string) (*models.Holding, error) {
	var holding models.Holding
	if err := db.Where("name = ?", name).First(&holding).Error; err != nil {
		return nil, dbError(err)
	}
	return &holding, nil
}

func (r *holdingsRepository) AddHolding(ctx context.Context, holding *models.Holding) error {
	if err := r.db.WithContext(ctx).Create(holding).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *holdingsRepository) UpdateHolding(ctx context.Context, holding *models.Holding) error {
	if err := r.db.WithContext(ctx).Save(holding).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *holdingsRepository) DeleteHolding(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Holding{})
	if result.Error != nil {
		return dbError(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (r *holdingsRepository) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	holdings := make([]models.Holding, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&holdings).Error; err != nil {
		return nil, dbError(err)
	}
	return holdings, nil
}
