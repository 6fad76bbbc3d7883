package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProductResult is a product's share of a user's sales, taken from frozen bill lines
type TopProductResult struct {
	ProductID    uint
	ProductName  string
	QuantitySold int
	Revenue      decimal.Decimal
}

// DailySalesResult is the billed total for a single day
type DailySalesResult struct {
	Date      time.Time
	BillCount int
	Revenue   decimal.Decimal
}

// SalesTotals aggregates a user's bills issued since a point in time
type SalesTotals struct {
	BillCount int64
	Subtotal  decimal.Decimal
	Revenue   decimal.Decimal
}

// SalesReportRepository defines the aggregation queries behind the sales summary
type SalesReportRepository interface {
	// GetTopProducts returns the user's best selling products by revenue
	GetTopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]TopProductResult, error)

	// GetDailySales returns one entry per UTC day for the last days days ending at now
	GetDailySales(ctx context.Context, userID uuid.UUID, days int, now time.Time) ([]DailySalesResult, error)

	// GetTotals sums the user's bills created at or after since; a zero since means all time
	GetTotals(ctx context.Context, userID uuid.UUID, since time.Time) (*SalesTotals, error)
}
