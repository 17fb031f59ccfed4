package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository struct {
	store Source
}

// NewProductRepository creates a new product repository
func NewProductRepository(store Source) domainRepo.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.store.DB().WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.store.DB().WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByNo(ctx context.Context, shopID uuid.UUID, productNo int64) (*entity.Product, error) {
	var product entity.Product
	err := r.store.DB().WithContext(ctx).
		First(&product, "shop_id = ? AND product_no = ?", shopID, productNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByNos retrieves multiple products by number in a single query
func (r *productRepository) GetByNos(ctx context.Context, shopID uuid.UUID, productNos []int64) ([]entity.Product, error) {
	if len(productNos) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.store.DB().WithContext(ctx).
		Where("shop_id = ? AND product_no IN ?", shopID, productNos).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetByBarcode(ctx context.Context, shopID uuid.UUID, barcode string) (*entity.Product, error) {
	var product entity.Product
	err := r.store.DB().WithContext(ctx).
		First(&product, "shop_id = ? AND barcode = ?", shopID, barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.store.DB().WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.DB().WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.store.DB().WithContext(ctx).Model(&entity.Product{}).
		Where("shop_id = ?", shopID)

	if params.Search != "" {
		query = query.Where("description LIKE ? OR description_alt LIKE ? OR barcode LIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= stock_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "product_no"
	sortOrder := "ASC"
	switch params.SortBy {
	case "description", "stock", "retail_price", "created_at":
		sortBy = params.SortBy
	}
	if params.SortOrder == "DESC" || params.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context, shopID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := r.store.DB().WithContext(ctx).
		Where("shop_id = ? AND stock <= stock_alert", shopID).
		Order("product_no ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountLowStock(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var count int64
	err := r.store.DB().WithContext(ctx).Model(&entity.Product{}).
		Where("shop_id = ? AND stock <= stock_alert", shopID).
		Count(&count).Error
	return count, err
}

// AdjustStock applies a signed delta in place. The arithmetic runs in the
// database so concurrent adjustments never lose an update; stock is allowed
// to go negative, which surfaces as a low-stock row rather than an error.
func (r *productRepository) AdjustStock(ctx context.Context, shopID uuid.UUID, productNo int64, delta decimal.Decimal) error {
	result := r.store.DB().WithContext(ctx).Model(&entity.Product{}).
		Where("shop_id = ? AND product_no = ?", shopID, productNo).
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d not found in shop %s", productNo, shopID)
	}
	return nil
}
