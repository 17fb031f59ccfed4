package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents an item a shop sells. Its business identity is the
// (shop, product_no) pair; product_no is assigned from the shop's counter.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ShopID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_shop_no;index" json:"shop_id"`
	ProductNo      int64           `gorm:"not null;uniqueIndex:idx_products_shop_no" json:"product_no"`
	Description    string          `gorm:"size:255;not null" json:"description"`
	DescriptionAlt *string         `gorm:"size:255" json:"description_alt,omitempty"`
	Barcode        *string         `gorm:"size:100;index" json:"barcode,omitempty"`
	WholesalePrice decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"wholesale_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"retail_price"`
	// Stock is the authoritative on-hand quantity after every committed
	// sale. Fractional quantities are allowed and oversell may drive it
	// negative; there is no floor.
	Stock      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"stock"`
	StockAlert decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"stock_alert"`
	Category   string          `gorm:"size:100;index" json:"category"`
	TaxCode    string          `gorm:"size:50" json:"tax_code"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Shop Shop `gorm:"foreignKey:ShopID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
