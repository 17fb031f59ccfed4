package request

import (
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one cart line in a finalize or preview request
type SaleItemRequest struct {
	ProductNo   int64           `json:"product_no" binding:"required"`
	Description string          `json:"description" binding:"omitempty,max=255"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	IsReturn    bool            `json:"is_return"`
	TaxCode     string          `json:"tax_code" binding:"omitempty,max=20"`
}

// FinalizeSaleRequest represents a cart being rung up. PaidAmount omitted
// means the customer pays the grand total exactly; TaxRatePercent omitted
// means the shop's default applies. ExpectedGrandTotal, when present, is
// the figure the register showed the cashier; finalization refuses the cart
// if the recomputed total no longer matches it.
type FinalizeSaleRequest struct {
	Items              []SaleItemRequest   `json:"items"`
	DiscountAmount     decimal.Decimal     `json:"discount_amount"`
	TaxRatePercent     *decimal.Decimal    `json:"tax_rate_percent"`
	CustomerName       *string             `json:"customer_name" binding:"omitempty,max=255"`
	CustomerMobile     *string             `json:"customer_mobile" binding:"omitempty,max=30"`
	PaidAmount         *decimal.Decimal    `json:"paid_amount"`
	PaymentMethod      *enum.PaymentMethod `json:"payment_method"`
	ExpectedGrandTotal *decimal.Decimal    `json:"expected_grand_total"`
}

// PreviewBillRequest asks for a bill computation without touching the
// ledger. The prior balance is looked up from the mobile when given.
type PreviewBillRequest struct {
	Items          []SaleItemRequest `json:"items"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxRatePercent decimal.Decimal   `json:"tax_rate_percent"`
	CustomerMobile string            `json:"customer_mobile" binding:"omitempty,max=30"`
	PaidAmount     *decimal.Decimal  `json:"paid_amount"`
}

// SettlementRequest records a payment against existing debt
type SettlementRequest struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod *enum.PaymentMethod `json:"payment_method"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search          string `form:"search"`
	CustomerMobile  string `form:"customer_mobile"`
	OutstandingOnly bool   `form:"outstanding_only"`
	StartDate       string `form:"start_date"`
	EndDate         string `form:"end_date"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order"`
	Page            int    `form:"page"`
	PerPage         int    `form:"per_page"`
	Limit           int    `form:"limit"` // For cursor-based pagination
}
