package repository

import (
	"context"
	"time"

	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type salesReportRepository struct {
	db *gorm.DB
}

// NewSalesReportRepository creates a new sales report repository
func NewSalesReportRepository(db *gorm.DB) domainRepo.SalesReportRepository {
	return &salesReportRepository{db: db}
}

func (r *salesReportRepository) GetTopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	// names come from the lines, so renamed or removed products still report
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.product_id as product_id,
			MAX(bi.name) as product_name,
			COALESCE(SUM(bi.quantity), 0) as quantity_sold,
			COALESCE(SUM(bi.line_total), 0) as revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.user_id = ?
		GROUP BY bi.product_id
		ORDER BY revenue DESC, bi.product_id ASC
		LIMIT ?
	`, userID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *salesReportRepository) GetDailySales(ctx context.Context, userID uuid.UUID, days int, now time.Time) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now = now.UTC()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			BillCount int
			Revenue   decimal.NullDecimal
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT COUNT(*) as bill_count, SUM(total) as revenue
			FROM bills
			WHERE user_id = ?
			AND created_at >= ? AND created_at < ?
		`, userID, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		revenue := decimal.Zero
		if row.Revenue.Valid {
			revenue = row.Revenue.Decimal
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:      startOfDay,
			BillCount: row.BillCount,
			Revenue:   revenue,
		})
	}

	return results, nil
}

func (r *salesReportRepository) GetTotals(ctx context.Context, userID uuid.UUID, since time.Time) (*domainRepo.SalesTotals, error) {
	var row struct {
		BillCount int64
		Subtotal  decimal.NullDecimal
		Revenue   decimal.NullDecimal
	}

	query := r.db.WithContext(ctx).Table("bills").
		Select("COUNT(*) as bill_count, SUM(subtotal) as subtotal, SUM(total) as revenue").
		Scopes(OwnedBy(userID))
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since.UTC())
	}
	if err := query.Scan(&row).Error; err != nil {
		return nil, err
	}

	totals := &domainRepo.SalesTotals{BillCount: row.BillCount, Subtotal: decimal.Zero, Revenue: decimal.Zero}
	if row.Subtotal.Valid {
		totals.Subtotal = row.Subtotal.Decimal
	}
	if row.Revenue.Valid {
		totals.Revenue = row.Revenue.Decimal
	}
	return totals, nil
}
