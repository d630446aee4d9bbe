package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/events"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/repository"
	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"gorm.io/gorm"
)

const publishTimeout = 5 * time.Second

type LedgerService interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
	ListHoldings(ctx context.Context) ([]models.Holding, error)
	ListPositions(ctx context.Context) ([]models.Position, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type ledgerService struct {
	db            *gorm.DB
	holdingsRepo  repository.HoldingsRepository
	ordersRepo    repository.OrdersRepository
	positionsRepo repository.PositionsRepository
	publisher     events.Publisher
	locks         *keyLocker
	log           *slog.Logger
	now           func() time.Time
}

func NewLedgerService(db *gorm.DB, publisher events.Publisher, log *slog.Logger) LedgerService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &ledgerService{
		db:            db,
		holdingsRepo:  repository.NewHoldingsRepository(db),
		ordersRepo:    repository.NewOrdersRepository(db),
		positionsRepo: repository.NewPositionsRepository(db),
		publisher:     publisher,
		locks:         newKeyLocker(),
		log:           log,
		now:           time.Now,
	}
}

// PlaceOrder records the order for (name, mode) and applies it to the
// holding in one transaction. Orders on the same instrument run one at a
// time. A rejected SELL leaves both the order and the holding untouched.
func (s *ledgerService) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	const op = "service.ledger.PlaceOrder"

	mode, err := validateOrder(&req)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.Name)
	defer unlock()

	var result models.OrderResult

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txOrders := repository.NewOrdersRepository(tx)
		txHoldings := repository.NewHoldingsRepository(tx)

		order, err := txOrders.UpsertOrder(ctx, req.Name, mode, req.Qty, req.Price)
		if err != nil {
			return fmt.Errorf("upsert order: %w", err)
		}
		result.Order = *order

		existing, err := txHoldings.GetHoldingForUpdate(ctx, req.Name)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("get holding: %w", err)
		}

		switch mode {
		case models.ModeBuy:
			if existing == nil {
				holding := models.NewHolding(req.Name, req.Qty, req.Price)
				if err := txHoldings.AddHolding(ctx, holding); err != nil {
					return fmt.Errorf("add holding: %w", err)
				}
				result.Holding = holding
				return nil
			}

			existing.ApplyBuy(req.Qty, req.Price)
			if err := txHoldings.UpdateHolding(ctx, existing); err != nil {
				return fmt.Errorf("update holding: %w", err)
			}
			result.Holding = existing

		case models.ModeSell:
			if existing == nil || !existing.ApplySell(req.Qty) {
				return errs.ErrInsufficientHolding
			}

			if existing.Qty == 0 {
				if err := txHoldings.DeleteHolding(ctx, req.Name); err != nil {
					return fmt.Errorf("delete holding: %w", err)
				}
				result.Deleted = true
				return nil
			}

			if err := txHoldings.UpdateHolding(ctx, existing); err != nil {
				return fmt.Errorf("update holding: %w", err)
			}
			result.Holding = existing
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, req, &result)

	return &result, nil
}

func (s *ledgerService) publish(ctx context.Context, req models.OrderRequest, result *models.OrderResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := models.NewLedgerEvent(req, result, s.now().UTC())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("failed to publish ledger event", "name", ev.Name, "mode", ev.Mode, "error", err)
	}
}

// validateOrder normalizes req in place and rejects anything that is not
// a positive quantity at a positive price on a known side. Prices are cut
// to the stored precision first.
func validateOrder(req *models.OrderRequest) (models.Mode, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "", fmt.Errorf("%w: name is required", errs.ErrInvalidOrder)
	}
	if req.Qty <= 0 {
		return "", fmt.Errorf("%w: qty must be positive", errs.ErrInvalidOrder)
	}
	req.Price = req.Price.Round(models.AvgPrecision)
	if !req.Price.IsPositive() {
		return "", fmt.Errorf("%w: price must be positive", errs.ErrInvalidOrder)
	}

	mode, ok := models.ParseMode(req.Mode)
	if !ok {
		return "", fmt.Errorf("%w: mode must be BUY or SELL", errs.ErrInvalidOrder)
	}
	return mode, nil
}

func (s *ledgerService) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	return s.holdingsRepo.ListHoldings(ctx)
}

func (s *ledgerService) ListPositions(ctx context.Context) ([]models.Position, error) {
	return s.positionsRepo.ListPositions(ctx)
}

func (s *ledgerService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.ordersRepo.ListOrders(ctx)
}
