package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetBySaleNo(ctx context.Context, saleNo string) (*entity.Sale, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// Update persists settlement mutations (PaidAmount/BalanceDue); totals
	// and line items are fixed at finalization and never rewritten.
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, shopID uuid.UUID, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, shopID uuid.UUID, params *SaleCursorFilterParams) ([]entity.Sale, error)
	// ListOutstandingByMobile returns a customer's sales with balance_due > 0,
	// oldest first (sale_date, then created_at, then id, all ascending) so the
	// settlement walk is deterministic under ties. excludeID skips the sale
	// being finalized; pass uuid.Nil to include everything.
	ListOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) ([]entity.Sale, error)
	// SumOutstandingByMobile is the customer's prior balance: the sum of
	// balance_due across their sales, excluding excludeID when non-nil.
	SumOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) (decimal.Decimal, error)
	ListOutstanding(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination      *pagination.PaginationParams
	Search          string
	CustomerMobile  string
	OutstandingOnly bool
	StartDate       *time.Time
	EndDate         *time.Time
	SortBy          string
	SortOrder       string
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor          *pagination.CursorParams
	Search          string
	CustomerMobile  string
	OutstandingOnly bool
	StartDate       *time.Time
	EndDate         *time.Time
}

// SaleLineItemRepository defines the interface for line item data operations.
// Line items are write-once: created in the finalization transaction and
// only ever read afterwards.
type SaleLineItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.SaleLineItem) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLineItem, error)
}
