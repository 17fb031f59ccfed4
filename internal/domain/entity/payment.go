package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is the append-only audit trail of how a sale's PaidAmount
// accumulated. Rows are never updated or deleted while the sale exists.
type Payment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount    decimal.Decimal    `gorm:"type:decimal(20,4);not null" json:"amount"`
	Method    enum.PaymentMethod `gorm:"default:0" json:"method"`
	Source    enum.PaymentSource `gorm:"default:0" json:"source"`
	PaidAt    time.Time          `gorm:"not null;index" json:"paid_at"`
	CreatedAt time.Time          `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
