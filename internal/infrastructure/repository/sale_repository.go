package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepository struct {
	store Source
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(store Source) domainRepo.SaleRepository {
	return &saleRepository{store: store}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.store.DB().WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.store.DB().WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetBySaleNo(ctx context.Context, saleNo string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.store.DB().WithContext(ctx).First(&sale, "sale_no = ?", saleNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.store.DB().WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.store.DB().WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.store.DB().WithContext(ctx).Model(&entity.Sale{}).
		Where("shop_id = ?", shopID)

	if params.Search != "" {
		query = query.Where("sale_no LIKE ? OR customer_name LIKE ? OR customer_mobile LIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerMobile != "" {
		query = query.Where("customer_mobile = ?", params.CustomerMobile)
	}

	if params.OutstandingOnly {
		query = query.Where("balance_due > 0")
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "sale_date"
	sortOrder := "DESC"
	switch params.SortBy {
	case "sale_no", "total", "balance_due", "created_at":
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor returns sales using cursor-based pagination
func (r *saleRepository) ListWithCursor(ctx context.Context, shopID uuid.UUID, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := r.store.DB().WithContext(ctx).Model(&entity.Sale{}).
		Where("shop_id = ?", shopID)

	if params.Search != "" {
		query = query.Where("sale_no LIKE ? OR customer_name LIKE ? OR customer_mobile LIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.CustomerMobile != "" {
		query = query.Where("customer_mobile = ?", params.CustomerMobile)
	}

	if params.OutstandingOnly {
		query = query.Where("balance_due > 0")
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Cursor.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}

// ListOutstandingByMobile returns the customer's unsettled sales oldest
// first. The three-key ordering keeps the settlement walk deterministic when
// sales share a date.
func (r *saleRepository) ListOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	query := r.store.DB().WithContext(ctx).
		Where("customer_mobile = ? AND balance_due > 0", mobile)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.
		Order("sale_date ASC, created_at ASC, id ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) SumOutstandingByMobile(ctx context.Context, mobile string, excludeID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	query := r.store.DB().WithContext(ctx).Model(&entity.Sale{}).
		Select("COALESCE(SUM(balance_due), 0) AS total").
		Where("customer_mobile = ? AND balance_due > 0", mobile)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (r *saleRepository) ListOutstanding(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.store.DB().WithContext(ctx).Model(&entity.Sale{}).
		Where("shop_id = ? AND balance_due > 0", shopID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("sale_date ASC, created_at ASC, id ASC").
		Find(&sales).Error

	return sales, total, err
}

type saleLineItemRepository struct {
	store Source
}

// NewSaleLineItemRepository creates a new sale line item repository
func NewSaleLineItemRepository(store Source) domainRepo.SaleLineItemRepository {
	return &saleLineItemRepository{store: store}
}

func (r *saleLineItemRepository) CreateBatch(ctx context.Context, items []entity.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.store.DB().WithContext(ctx).Create(&items).Error
}

func (r *saleLineItemRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleLineItem, error) {
	var items []entity.SaleLineItem
	err := r.store.DB().WithContext(ctx).
		Where("sale_id = ?", saleID).
		Find(&items).Error
	return items, err
}
