package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
)

type paymentRepository struct {
	store Source
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(store Source) domainRepo.PaymentRepository {
	return &paymentRepository{store: store}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.store.DB().WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.store.DB().WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("paid_at ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}
