package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type analyticsRepository struct {
	store Source
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(store Source) domainRepo.AnalyticsRepository {
	return &analyticsRepository{store: store}
}

func (r *analyticsRepository) GetSalesTotalSince(ctx context.Context, shopID uuid.UUID, since time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.store.DB().WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM sales
		WHERE shop_id = ? AND sale_date >= ?
	`, shopID, since).Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	return row.Total, row.Count, nil
}

func (r *analyticsRepository) GetOutstandingTotal(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.store.DB().WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(balance_due), 0)
		FROM sales
		WHERE shop_id = ? AND balance_due > 0
	`, shopID).Scan(&total).Error

	return total, err
}

func (r *analyticsRepository) GetExpensesTotalSince(ctx context.Context, shopID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.store.DB().WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE shop_id = ? AND incurred_at >= ? AND deleted_at IS NULL
	`, shopID, since).Scan(&total).Error

	return total, err
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, shopID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and get sales for each
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue decimal.Decimal
			Count   int64
		}
		err := r.store.DB().WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count
			FROM sales
			WHERE shop_id = ?
			AND sale_date >= ? AND sale_date < ?
		`, shopID, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    startOfDay,
			Revenue: row.Revenue,
			Count:   row.Count,
		})
	}

	return results, nil
}
