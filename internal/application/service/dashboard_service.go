package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DashboardService provides the register's day-view statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		saleRepo:      saleRepo,
	}
}

// DashboardStats represents the shop's current position
type DashboardStats struct {
	TodaySalesTotal  decimal.Decimal   `json:"today_sales_total"`
	TodaySalesCount  int64             `json:"today_sales_count"`
	OutstandingTotal decimal.Decimal   `json:"outstanding_total"`
	TodayExpenses    decimal.Decimal   `json:"today_expenses"`
	LowStockCount    int64             `json:"low_stock_count"`
	DailySalesData   []DailySalesPoint `json:"daily_sales_data"`
	RecentSales      []entity.Sale     `json:"recent_sales"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// GetDashboardStats returns the shop's dashboard figures
func (s *DashboardService) GetDashboardStats(ctx context.Context, shopID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayTotal, todayCount, err := s.analyticsRepo.GetSalesTotalSince(ctx, shopID, startOfDay)
	if err != nil {
		return nil, err
	}
	stats.TodaySalesTotal = todayTotal
	stats.TodaySalesCount = todayCount

	outstanding, err := s.analyticsRepo.GetOutstandingTotal(ctx, shopID)
	if err != nil {
		return nil, err
	}
	stats.OutstandingTotal = outstanding

	todayExpenses, err := s.analyticsRepo.GetExpensesTotalSince(ctx, shopID, startOfDay)
	if err != nil {
		return nil, err
	}
	stats.TodayExpenses = todayExpenses

	lowStockCount, err := s.productRepo.CountLowStock(ctx, shopID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = lowStockCount

	// Last 7 days of sales for the dashboard chart
	daily, err := s.analyticsRepo.GetDailySales(ctx, shopID, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, day := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    day.Date.Format("Jan 02"),
			Revenue: day.Revenue,
			Count:   day.Count,
		})
	}

	recent, _, err := s.saleRepo.List(ctx, shopID, &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 5},
		SortBy:     "created_at",
		SortOrder:  "DESC",
	})
	if err != nil {
		return nil, err
	}
	stats.RecentSales = recent

	return stats, nil
}
