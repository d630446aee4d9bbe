package repository

import (
	"context"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdersRepository interface {
	// UpsertOrder adds qty to the (name, mode) order and overwrites its
	// price, creating the order on first submission.
	UpsertOrder(ctx context.Context, name string, mode models.Mode, qty int64, price decimal.Decimal) (*models.Order, error)
	GetOrder(ctx context.Context, name string, mode models.Mode) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type ordersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) OrdersRepository {
	return &ordersRepository{db: db}
}

func (r *ordersRepository) UpsertOrder(ctx context.Context, name string, mode models.Mode, qty int64, price decimal.Decimal) (*models.Order, error) {
	order := models.Order{
		Name:  name,
		Mode:  mode,
		Qty:   qty,
		Price: price,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}, {Name: "mode"}},
		DoUpdates: clause.Assignments(map[string]any{
			"qty":        gorm.Expr("orders.qty + excluded.qty"),
			"price":      gorm.Expr("excluded.price"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&order).Error
	if err != nil {
		return nil, dbError(err)
	}

	return r.GetOrder(ctx, name, mode)
}

func (r *ordersRepository) GetOrder(ctx context.Context, name string, mode models.Mode) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("name = ? AND mode = ?", name, mode).First(&order).Error; err != nil {
		return nil, dbError(err)
	}
	return &order, nil
}

func (r *ordersRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, dbError(err)
	}
	return orders, nil
}
