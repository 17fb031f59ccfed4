package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
)

// PaymentRepository defines the interface for payment data operations.
// Payments are append-only; there is deliberately no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error)
}
