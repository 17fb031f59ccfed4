package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
)

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	GetByCode(ctx context.Context, code string) (*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	List(ctx context.Context) ([]entity.Shop, error)
	// NextProductNo returns the shop's current counter value and advances it
	// by one. Must run inside the same transaction as the product insert it
	// numbers.
	NextProductNo(ctx context.Context, shopID uuid.UUID) (int64, error)
}
