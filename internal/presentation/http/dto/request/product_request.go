package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request. Prices and
// quantities are decimals; both JSON numbers and quoted strings bind.
type CreateProductRequest struct {
	Description    string          `json:"description" binding:"required,min=1,max=255"`
	DescriptionAlt *string         `json:"description_alt" binding:"omitempty,max=255"`
	Barcode        *string         `json:"barcode" binding:"omitempty,max=100"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	Stock          decimal.Decimal `json:"stock"`
	StockAlert     decimal.Decimal `json:"stock_alert"`
	Category       string          `json:"category" binding:"omitempty,max=100"`
	TaxCode        string          `json:"tax_code" binding:"omitempty,max=20"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Description    *string          `json:"description" binding:"omitempty,min=1,max=255"`
	DescriptionAlt *string          `json:"description_alt" binding:"omitempty,max=255"`
	Barcode        *string          `json:"barcode" binding:"omitempty,max=100"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	Stock          *decimal.Decimal `json:"stock"`
	StockAlert     *decimal.Decimal `json:"stock_alert"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	TaxCode        *string          `json:"tax_code" binding:"omitempty,max=20"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
