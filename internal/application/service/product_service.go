package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog operations
type ProductService struct {
	uow         repository.UnitOfWork
	productRepo repository.ProductRepository
	snapshots   *SnapshotService
}

// NewProductService creates a new product service
func NewProductService(
	uow repository.UnitOfWork,
	productRepo repository.ProductRepository,
	snapshots *SnapshotService,
) *ProductService {
	return &ProductService{
		uow:         uow,
		productRepo: productRepo,
		snapshots:   snapshots,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	ShopID         uuid.UUID
	Description    string
	DescriptionAlt *string
	Barcode        *string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	Stock          decimal.Decimal
	StockAlert     decimal.Decimal
	Category       string
	TaxCode        string
}

// CreateProduct creates a new product. The product number comes from the
// owning shop's counter, claimed in the same transaction as the insert so
// numbers are dense and never reused.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "description",
			Message: "description is required",
		}})
	}
	if input.RetailPrice.IsNegative() || input.WholesalePrice.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "retail_price",
			Message: "prices cannot be negative",
		}})
	}

	var created *entity.Product

	err := s.uow.Execute(ctx, func(tx repository.RepositoryProvider) error {
		shop, err := tx.Shops().GetByID(ctx, input.ShopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return apperror.NewNotFoundError("Shop")
		}

		if input.Barcode != nil && *input.Barcode != "" {
			existing, err := tx.Products().GetByBarcode(ctx, input.ShopID, *input.Barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				return apperror.NewConflictError("Barcode already in use")
			}
		}

		productNo, err := tx.Shops().NextProductNo(ctx, input.ShopID)
		if err != nil {
			return err
		}

		product := &entity.Product{
			ShopID:         input.ShopID,
			ProductNo:      productNo,
			Description:    strings.TrimSpace(input.Description),
			DescriptionAlt: input.DescriptionAlt,
			Barcode:        input.Barcode,
			WholesalePrice: input.WholesalePrice,
			RetailPrice:    input.RetailPrice,
			Stock:          input.Stock,
			StockAlert:     input.StockAlert,
			Category:       input.Category,
			TaxCode:        input.TaxCode,
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return apperror.NewStorageWriteError(err.Error())
		}

		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after product create failed: %v", err)
	}

	return s.productRepo.GetByID(ctx, created.ID)
}

// GetProduct retrieves a product by its shop-scoped number
func (s *ProductService) GetProduct(ctx context.Context, shopID uuid.UUID, productNo int64) (*entity.Product, error) {
	product, err := s.productRepo.GetByNo(ctx, shopID, productNo)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByBarcode resolves a scanned barcode to a product
func (s *ProductService) GetProductByBarcode(ctx context.Context, shopID uuid.UUID, barcode string) (*entity.Product, error) {
	product, err := s.productRepo.GetByBarcode(ctx, shopID, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, shopID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Description    *string
	DescriptionAlt *string
	Barcode        *string
	WholesalePrice *decimal.Decimal
	RetailPrice    *decimal.Decimal
	Stock          *decimal.Decimal
	StockAlert     *decimal.Decimal
	Category       *string
	TaxCode        *string
}

// UpdateProduct updates catalog fields. Historical line items keep the
// description and price they were sold under; only the catalog row changes.
func (s *ProductService) UpdateProduct(ctx context.Context, shopID uuid.UUID, productNo int64, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByNo(ctx, shopID, productNo)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Barcode != nil && *input.Barcode != "" {
		existing, err := s.productRepo.GetByBarcode(ctx, shopID, *input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Barcode already in use")
		}
		product.Barcode = input.Barcode
	}

	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.DescriptionAlt != nil {
		product.DescriptionAlt = input.DescriptionAlt
	}
	if input.WholesalePrice != nil {
		if input.WholesalePrice.IsNegative() {
			return nil, apperror.NewBadRequestError("Wholesale price cannot be negative")
		}
		product.WholesalePrice = *input.WholesalePrice
	}
	if input.RetailPrice != nil {
		if input.RetailPrice.IsNegative() {
			return nil, apperror.NewBadRequestError("Retail price cannot be negative")
		}
		product.RetailPrice = *input.RetailPrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.TaxCode != nil {
		product.TaxCode = *input.TaxCode
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after product update failed: %v", err)
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// AdjustStock applies a signed delta to a product's stock: positive for
// received goods, negative for damage or correction. No floor is enforced;
// an oversold shelf shows up as negative stock, not a blocked sale. Each
// adjustment gets a reference number in the log so shrinkage can be traced
// back from the daily report.
func (s *ProductService) AdjustStock(ctx context.Context, shopID uuid.UUID, productNo int64, delta decimal.Decimal, reason string) (*entity.Product, error) {
	if delta.IsZero() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "delta",
			Message: "delta must be non-zero",
		}})
	}

	product, err := s.productRepo.GetByNo(ctx, shopID, productNo)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.AdjustStock(ctx, shopID, productNo, delta); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if reason == "" {
		reason = "unspecified"
	}
	log.Printf("Stock adjustment %s: product %d delta %s (%s)",
		utils.GenerateReferenceNo("ADJ"), productNo, delta, reason)

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after stock adjustment failed: %v", err)
	}

	return s.productRepo.GetByNo(ctx, shopID, productNo)
}

// DeleteProduct soft-deletes a product. Past sales keep their line item
// snapshots; the product just stops being sellable.
func (s *ProductService) DeleteProduct(ctx context.Context, shopID uuid.UUID, productNo int64) error {
	product, err := s.productRepo.GetByNo(ctx, shopID, productNo)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after product delete failed: %v", err)
	}
	return nil
}

// GetLowStockProducts returns products at or below their alert threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context, shopID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, shopID)
}
