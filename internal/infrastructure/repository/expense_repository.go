package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"gorm.io/gorm"
)

type expenseRepository struct {
	store Source
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(store Source) domainRepo.ExpenseRepository {
	return &expenseRepository{store: store}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.store.DB().WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.store.DB().WithContext(ctx).First(&expense, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &expense, err
}

func (r *expenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	return r.store.DB().WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.DB().WithContext(ctx).Delete(&entity.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) List(ctx context.Context, shopID uuid.UUID, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := r.store.DB().WithContext(ctx).Model(&entity.Expense{}).
		Where("shop_id = ?", shopID)

	if params.Search != "" {
		query = query.Where("description LIKE ?", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.StartDate != nil {
		query = query.Where("incurred_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("incurred_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("incurred_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}
