package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ExpenseService handles shop operating cost records
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
	snapshots   *SnapshotService
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository, snapshots *SnapshotService) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, snapshots: snapshots}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	ShopID      uuid.UUID
	Description string
	Category    string
	Amount      decimal.Decimal
	IncurredAt  *time.Time
}

// CreateExpense records an operating cost
func (s *ExpenseService) CreateExpense(ctx context.Context, input *CreateExpenseInput) (*entity.Expense, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Description) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "description",
			Message: "description is required",
		})
	}
	if !input.Amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "amount",
			Message: "amount must be positive",
		})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	incurredAt := time.Now()
	if input.IncurredAt != nil {
		incurredAt = *input.IncurredAt
	}

	expense := &entity.Expense{
		ShopID:      input.ShopID,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Amount:      input.Amount,
		IncurredAt:  incurredAt,
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after expense create failed: %v", err)
	}

	return expense, nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// ListExpenses lists expenses with filtering
func (s *ExpenseService) ListExpenses(ctx context.Context, shopID uuid.UUID, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(expenses, pag), nil
}

// UpdateExpenseInput represents the update expense input
type UpdateExpenseInput struct {
	Description *string
	Category    *string
	Amount      *decimal.Decimal
	IncurredAt  *time.Time
}

// UpdateExpense updates an expense record
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, input *UpdateExpenseInput) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperror.NewBadRequestError("Description cannot be empty")
		}
		expense.Description = description
	}
	if input.Category != nil {
		expense.Category = *input.Category
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, apperror.NewBadRequestError("Amount must be positive")
		}
		expense.Amount = *input.Amount
	}
	if input.IncurredAt != nil {
		expense.IncurredAt = *input.IncurredAt
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after expense update failed: %v", err)
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return apperror.NewNotFoundError("Expense")
	}

	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return apperror.NewStorageWriteError(err.Error())
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after expense delete failed: %v", err)
	}
	return nil
}
