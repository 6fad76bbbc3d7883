package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry the billing core sells from.
// The catalog itself is administered elsewhere; billing only reads rows and decrements Stock.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,6);not null;check:price >= 0" json:"price"`
	Stock     int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// CanSell reports whether qty more units fit in stock once reserved units are taken.
// It compares against what is left, so a huge qty cannot overflow a running total.
func (p *Product) CanSell(reserved, qty int) bool {
	return qty > 0 && reserved >= 0 && qty <= p.Stock-reserved
}
