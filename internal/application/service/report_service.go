package service

import (
	"context"
	"time"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/entity"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultReportDays = 7
	maxReportDays     = 90
	topProductsLimit  = 5
)

// ReportService summarizes a user's billing activity
type ReportService struct {
	reportRepo repository.SalesReportRepository
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.SalesReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, now: time.Now}
}

// SalesSummary represents the sales overview of one user
type SalesSummary struct {
	TotalBills     int64             `json:"total_bills"`
	TotalRevenue   string            `json:"total_revenue"`
	TotalDiscount  string            `json:"total_discount"`
	AverageBill    string            `json:"average_bill"`
	TodayBills     int64             `json:"today_bills"`
	TodayRevenue   string            `json:"today_revenue"`
	DailySalesData []DailySalesPoint `json:"daily_sales_data"`
	TopProducts    []TopProductPoint `json:"top_products"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date      string `json:"date"`
	BillCount int    `json:"bill_count"`
	Revenue   string `json:"revenue"`
}

// TopProductPoint represents a best seller
type TopProductPoint struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

// GetSalesSummary returns totals, the last days days of sales and the top sellers.
// days outside 1..90 falls back to a week.
func (s *ReportService) GetSalesSummary(ctx context.Context, userID uuid.UUID, days int) (*SalesSummary, error) {
	if days < 1 || days > maxReportDays {
		days = defaultReportDays
	}
	now := s.now().UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	all, err := s.reportRepo.GetTotals(ctx, userID, time.Time{})
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	today, err := s.reportRepo.GetTotals(ctx, userID, startOfToday)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}

	summary := &SalesSummary{
		TotalBills:    all.BillCount,
		TotalRevenue:  entity.FormatMoney(all.Revenue),
		TotalDiscount: entity.FormatMoney(all.Subtotal.Sub(all.Revenue)),
		AverageBill:   entity.FormatMoney(decimal.Zero),
		TodayBills:    today.BillCount,
		TodayRevenue:  entity.FormatMoney(today.Revenue),
	}
	if all.BillCount > 0 {
		summary.AverageBill = entity.FormatMoney(all.Revenue.Div(decimal.NewFromInt(all.BillCount)))
	}

	daily, err := s.reportRepo.GetDailySales(ctx, userID, days, now)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	summary.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		summary.DailySalesData = append(summary.DailySalesData, DailySalesPoint{
			Date:      d.Date.Format("2006-01-02"),
			BillCount: d.BillCount,
			Revenue:   entity.FormatMoney(d.Revenue),
		})
	}

	top, err := s.reportRepo.GetTopProducts(ctx, userID, topProductsLimit)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	summary.TopProducts = make([]TopProductPoint, 0, len(top))
	for _, p := range top {
		summary.TopProducts = append(summary.TopProducts, TopProductPoint{
			ProductID:    p.ProductID,
			Name:         p.ProductName,
			QuantitySold: p.QuantitySold,
			Revenue:      entity.FormatMoney(p.Revenue),
		})
	}

	return summary, nil
}
