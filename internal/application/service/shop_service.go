package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ShopService handles shop-related operations. Shops are the tenant
// boundary: every product number and sale belongs to exactly one.
type ShopService struct {
	shopRepo  repository.ShopRepository
	snapshots *SnapshotService
}

// NewShopService creates a new shop service
func NewShopService(shopRepo repository.ShopRepository, snapshots *SnapshotService) *ShopService {
	return &ShopService{shopRepo: shopRepo, snapshots: snapshots}
}

// CreateShopInput represents the create shop input
type CreateShopInput struct {
	Name           string
	Code           string
	DefaultTaxRate decimal.Decimal
}

// CreateShop creates a new shop with its product counter starting at 1.
// When no code is given one is derived from the name; the code ends up in
// every sale number the shop mints, so it must be non-empty and unique.
func (s *ShopService) CreateShop(ctx context.Context, input *CreateShopInput) (*entity.Shop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "name",
			Message: "name is required",
		}})
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = strings.ToUpper(utils.Slugify(name))
	}
	if code == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "code",
			Message: "code is required when one cannot be derived from the name",
		}})
	}
	if input.DefaultTaxRate.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "default_tax_rate",
			Message: "tax rate cannot be negative",
		}})
	}

	existing, err := s.shopRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Shop code already exists")
	}

	shop := &entity.Shop{
		Name:           name,
		Code:           code,
		NextProductNo:  1,
		DefaultTaxRate: input.DefaultTaxRate,
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after shop create failed: %v", err)
	}

	return shop, nil
}

// GetShop retrieves a shop by ID
func (s *ShopService) GetShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	return shop, nil
}

// ListShops lists all shops
func (s *ShopService) ListShops(ctx context.Context) ([]entity.Shop, error) {
	return s.shopRepo.List(ctx)
}

// UpdateShopInput represents the update shop input
type UpdateShopInput struct {
	Name           *string
	DefaultTaxRate *decimal.Decimal
}

// UpdateShop updates a shop's name or default tax rate. The code and the
// product counter never change; sale numbers already minted depend on them.
func (s *ShopService) UpdateShop(ctx context.Context, id uuid.UUID, input *UpdateShopInput) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Shop name cannot be empty")
		}
		shop.Name = name
	}
	if input.DefaultTaxRate != nil {
		if input.DefaultTaxRate.IsNegative() {
			return nil, apperror.NewBadRequestError("Tax rate cannot be negative")
		}
		shop.DefaultTaxRate = *input.DefaultTaxRate
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after shop update failed: %v", err)
	}

	return shop, nil
}
