package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type shopRepository struct {
	store Source
}

// NewShopRepository creates a new shop repository
func NewShopRepository(store Source) domainRepo.ShopRepository {
	return &shopRepository{store: store}
}

func (r *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	return r.store.DB().WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.store.DB().WithContext(ctx).First(&shop, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) GetByCode(ctx context.Context, code string) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.store.DB().WithContext(ctx).First(&shop, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	return r.store.DB().WithContext(ctx).Save(shop).Error
}

func (r *shopRepository) List(ctx context.Context) ([]entity.Shop, error) {
	var shops []entity.Shop
	err := r.store.DB().WithContext(ctx).Order("code ASC").Find(&shops).Error
	return shops, err
}

// NextProductNo claims the shop's current counter value and advances it by
// one. The increment runs in the database so two concurrent product
// creations never hand out the same number; callers run this inside the
// transaction that inserts the product.
func (r *shopRepository) NextProductNo(ctx context.Context, shopID uuid.UUID) (int64, error) {
	db := r.store.DB().WithContext(ctx)

	result := db.Model(&entity.Shop{}).
		Where("id = ?", shopID).
		Update("next_product_no", gorm.Expr("next_product_no + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, fmt.Errorf("shop %s not found", shopID)
	}

	var shop entity.Shop
	if err := db.Select("next_product_no").First(&shop, "id = ?", shopID).Error; err != nil {
		return 0, err
	}
	return shop.NextProductNo - 1, nil
}
