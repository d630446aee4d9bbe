package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderRequest struct {
	Name  string          `json:"name"`
	Qty   int64           `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Mode  string          `json:"mode"`
}

type OrderResult struct {
	Order   Order    `json:"order"`
	Holding *Holding `json:"holding,omitempty"`
	// Deleted is set when a SELL exhausted the holding.
	Deleted bool `json:"deleted"`
}

// LedgerEvent describes one committed order and the holding it left behind.
type LedgerEvent struct {
	Name    string          `json:"name"`
	Mode    Mode            `json:"mode"`
	Qty     int64           `json:"qty"`
	Price   decimal.Decimal `json:"price"`
	Holding *Holding        `json:"holding,omitempty"`
	Deleted bool            `json:"deleted"`
	At      time.Time       `json:"at"`
}

func NewLedgerEvent(req OrderRequest, res *OrderResult, at time.Time) LedgerEvent {
	return LedgerEvent{
		Name:    res.Order.Name,
		Mode:    res.Order.Mode,
		Qty:     req.Qty,
		Price:   req.Price,
		Holding: res.Holding,
		Deleted: res.Deleted,
		At:      at,
	}
}

type SignupInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
