package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AvgPrecision is the number of fractional digits stored for prices and
// recomputed averages.
const AvgPrecision = 4

const placeholderChange = "+0%"

func init() {
	// dashboard charts read prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Mode string

const (
	ModeBuy  Mode = "BUY"
	ModeSell Mode = "SELL"
)

func (m Mode) Valid() bool {
	return m == ModeBuy || m == ModeSell
}

// ParseMode accepts only the exact upper-case side names.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, m.Valid()
}

type Holding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"uniqueIndex;not null" json:"name"`
	Qty       int64           `gorm:"not null" json:"qty"`
	Avg       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"avg"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Net       string          `json:"net"`
	Day       string          `json:"day"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func NewHolding(name string, qty int64, price decimal.Decimal) *Holding {
	return &Holding{
		Name:  name,
		Qty:   qty,
		Avg:   price,
		Price: price,
		Net:   placeholderChange,
		Day:   placeholderChange,
	}
}

// ApplyBuy adds qty bought at price and recomputes the weighted-average
// cost basis. Price becomes the latest trade price.
func (h *Holding) ApplyBuy(qty int64, price decimal.Decimal) {
	total := h.Qty + qty
	cost := h.Avg.Mul(decimal.NewFromInt(h.Qty)).Add(price.Mul(decimal.NewFromInt(qty)))

	h.Qty = total
	h.Avg = cost.DivRound(decimal.NewFromInt(total), AvgPrecision)
	h.Price = price
}

// ApplySell removes qty from the holding. It reports false and leaves the
// holding untouched when fewer than qty units are held.
func (h *Holding) ApplySell(qty int64) bool {
	if h.Qty < qty {
		return false
	}
	h.Qty -= qty
	return true
}

type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"not null;uniqueIndex:idx_orders_name_mode" json:"name"`
	Mode      Mode            `gorm:"type:varchar(4);not null;uniqueIndex:idx_orders_name_mode" json:"mode"`
	Qty       int64           `gorm:"not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Position struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	Product string          `json:"product"`
	Name    string          `gorm:"not null" json:"name"`
	Qty     int64           `json:"qty"`
	Avg     decimal.Decimal `gorm:"type:decimal(20,4)" json:"avg"`
	Price   decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	Net     string          `json:"net"`
	Day     string          `json:"day"`
	IsLoss  bool            `json:"isLoss"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	ID        uint
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// Tables lists every model managed by auto-migration.
func Tables() []any {
	return []any{&Holding{}, &Order{}, &Position{}, &User{}, &Session{}}
}
