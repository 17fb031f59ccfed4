package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByNo resolves a product by its shop-scoped number
	GetByNo(ctx context.Context, shopID uuid.UUID, productNo int64) (*entity.Product, error)
	// GetByNos retrieves multiple products by number in a single query (prevents N+1)
	GetByNos(ctx context.Context, shopID uuid.UUID, productNos []int64) ([]entity.Product, error)
	GetByBarcode(ctx context.Context, shopID uuid.UUID, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, shopID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Product, error)
	CountLowStock(ctx context.Context, shopID uuid.UUID) (int64, error)
	// AdjustStock applies a signed delta to a product's stock in place.
	// Negative deltas may drive stock below zero; no floor is enforced.
	// Returns a not-found error when the (shop, product_no) pair is unknown.
	AdjustStock(ctx context.Context, shopID uuid.UUID, productNo int64, delta decimal.Decimal) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
	SortBy     string
	SortOrder  string
}
