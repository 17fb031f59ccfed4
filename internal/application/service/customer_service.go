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
	"github.com/shopspring/decimal"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	snapshots    *SnapshotService
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	snapshots *SnapshotService,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		snapshots:    snapshots,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name   string
	Mobile string
}

// CreateCustomer creates a new customer keyed by mobile number
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	mobile := strings.TrimSpace(input.Mobile)
	if mobile == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "mobile",
			Message: "mobile is required",
		}})
	}

	existing, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Customer mobile already exists")
	}

	customer := &entity.Customer{
		Name:   strings.TrimSpace(input.Name),
		Mobile: mobile,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after customer create failed: %v", err)
	}

	return customer, nil
}

// GetCustomer retrieves a customer by mobile number
func (s *CustomerService) GetCustomer(ctx context.Context, mobile string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// CustomerBalance is a customer's aggregate debt position: the sum the
// register shows as prior balance, plus the sales it is made of.
type CustomerBalance struct {
	Customer         *entity.Customer `json:"customer,omitempty"`
	Mobile           string           `json:"mobile"`
	Outstanding      decimal.Decimal  `json:"outstanding"`
	OutstandingSales []entity.Sale    `json:"outstanding_sales"`
}

// GetBalance returns the customer's outstanding balance and the unsettled
// sales behind it, oldest first. Sales reference customers by denormalized
// mobile, so the balance exists even when no customer record does.
func (s *CustomerService) GetBalance(ctx context.Context, mobile string) (*CustomerBalance, error) {
	customer, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListOutstandingByMobile(ctx, mobile, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if customer == nil && len(sales) == 0 {
		return nil, apperror.NewNotFoundError("Customer")
	}

	outstanding := decimal.Zero
	for _, sale := range sales {
		outstanding = outstanding.Add(sale.BalanceDue)
	}

	return &CustomerBalance{
		Customer:         customer,
		Mobile:           mobile,
		Outstanding:      outstanding,
		OutstandingSales: sales,
	}, nil
}

// ListCustomers lists customers with optional search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	Name   *string
	Mobile *string
}

// UpdateCustomer updates a customer record. Changing the mobile does not
// rewrite past sales: they keep the mobile snapshot taken at finalization.
func (s *CustomerService) UpdateCustomer(ctx context.Context, mobile string, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Mobile != nil && *input.Mobile != customer.Mobile {
		newMobile := strings.TrimSpace(*input.Mobile)
		if newMobile == "" {
			return nil, apperror.NewBadRequestError("Mobile cannot be empty")
		}
		existing, err := s.customerRepo.GetByMobile(ctx, newMobile)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != customer.ID {
			return nil, apperror.NewConflictError("Customer mobile already exists")
		}
		customer.Mobile = newMobile
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after customer update failed: %v", err)
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Their sales and balances remain
// in the ledger under the mobile snapshot.
func (s *CustomerService) DeleteCustomer(ctx context.Context, mobile string) error {
	customer, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if err := s.customerRepo.Delete(ctx, customer.ID); err != nil {
		return apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after customer delete failed: %v", err)
	}
	return nil
}
