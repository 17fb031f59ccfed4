package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is one finalized ledger entry. Totals are fixed at finalization;
// afterwards only settlement may touch it, moving PaidAmount up and
// BalanceDue down in lockstep. Sales carry no soft delete: removing one is
// exceptional and cascades to its line items and payments.
type Sale struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleNo string    `gorm:"size:100;unique;not null" json:"sale_no"`
	ShopID uuid.UUID `gorm:"type:uuid;not null;index" json:"shop_id"`
	// SaleDate orders the settlement walk; ties break on CreatedAt then ID.
	SaleDate       time.Time       `gorm:"not null;index" json:"sale_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"discount"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"tax_rate_percent"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"tax_amount"`
	// Total is the grand total: current bill plus the customer's prior
	// balance at finalization time.
	Total      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"paid_amount"`
	BalanceDue decimal.Decimal `gorm:"type:decimal(20,4);not null;index" json:"balance_due"`
	// Customer fields are copied at sale time, not live references.
	CustomerName   *string   `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerMobile *string   `gorm:"size:50;index" json:"customer_mobile,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Shop     Shop           `gorm:"foreignKey:ShopID" json:"-"`
	Items    []SaleLineItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []Payment      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// IsSettled reports whether nothing remains due on the sale
func (s *Sale) IsSettled() bool {
	return s.BalanceDue.LessThanOrEqual(decimal.Zero)
}

// SaleLineItem snapshots one cart line at the moment of sale. Every field
// is a copy; later product edits never alter a finalized invoice. Line
// items are immutable after creation.
type SaleLineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductNo   int64           `gorm:"not null" json:"product_no"`
	Description string          `gorm:"size:255;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	IsReturn    bool            `gorm:"not null;default:false" json:"is_return"`
	TaxCode     string          `gorm:"size:50" json:"tax_code"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new line item
func (li *SaleLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleLineItem model
func (SaleLineItem) TableName() string {
	return "sale_line_items"
}
