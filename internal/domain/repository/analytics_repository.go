package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue decimal.Decimal
	Count   int64
}

// AnalyticsRepository defines interface for analytics/aggregation queries.
// All sums are computed in SQL and scanned into decimals; nothing here
// mutates state.
type AnalyticsRepository interface {
	// GetSalesTotalSince returns the summed sale totals and count since a point in time
	GetSalesTotalSince(ctx context.Context, shopID uuid.UUID, since time.Time) (decimal.Decimal, int64, error)

	// GetOutstandingTotal returns the summed balance_due across the shop's sales
	GetOutstandingTotal(ctx context.Context, shopID uuid.UUID) (decimal.Decimal, error)

	// GetExpensesTotalSince returns summed expenses since a point in time
	GetExpensesTotalSince(ctx context.Context, shopID uuid.UUID, since time.Time) (decimal.Decimal, error)

	// GetDailySales returns per-day revenue for the last N days
	GetDailySales(ctx context.Context, shopID uuid.UUID, days int) ([]DailySalesResult, error)
}
