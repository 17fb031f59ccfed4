package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CartItem is one line of an in-flight cart. Quantity and price are
// decimals so weighed goods (0.25 kg) and fractional prices stay exact.
type CartItem struct {
	ProductNo   int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	IsReturn    bool
	TaxCode     string
}

// LineTotal is quantity times unit price, negated for returns
func (i CartItem) LineTotal() decimal.Decimal {
	total := i.Quantity.Mul(i.UnitPrice)
	if i.IsReturn {
		return total.Neg()
	}
	return total
}

// BillInput carries everything bill computation needs. PaidAmount nil means
// the customer pays the bill exactly.
type BillInput struct {
	Items          []CartItem
	DiscountAmount decimal.Decimal
	TaxRatePercent decimal.Decimal
	PriorBalance   decimal.Decimal
	PaidAmount     *decimal.Decimal
}

// Bill is a fully computed bill. Every figure the receipt shows comes from
// here; nothing downstream recomputes money.
type Bill struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	CurrentBill  decimal.Decimal `json:"current_bill"`
	PriorBalance decimal.Decimal `json:"prior_balance"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
	Change       decimal.Decimal `json:"change"`
}

// ComputeBill derives a bill from cart contents, discount, tax rate and
// prior balance. Pure: same input, same bill, no storage touched.
//
// Returns subtract from the subtotal, so a cart of mostly returns can
// produce a negative subtotal and a refund-shaped bill. The discount is
// taken before tax; tax applies to the discounted base.
func ComputeBill(input BillInput) Bill {
	subtotal := decimal.Zero
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	taxable := subtotal.Sub(input.DiscountAmount)
	taxAmount := taxable.Mul(input.TaxRatePercent.Shift(-2)).Round(2)

	currentBill := subtotal.Sub(input.DiscountAmount).Add(taxAmount)
	grandTotal := currentBill.Add(input.PriorBalance)

	paid := grandTotal
	if input.PaidAmount != nil {
		paid = *input.PaidAmount
	}

	balanceDue := grandTotal.Sub(paid)
	if balanceDue.IsNegative() {
		balanceDue = decimal.Zero
	}

	change := paid.Sub(grandTotal)
	if change.IsNegative() {
		change = decimal.Zero
	}

	return Bill{
		Subtotal:     subtotal,
		Discount:     input.DiscountAmount,
		TaxAmount:    taxAmount,
		CurrentBill:  currentBill,
		PriorBalance: input.PriorBalance,
		GrandTotal:   grandTotal,
		PaidAmount:   paid,
		BalanceDue:   balanceDue,
		Change:       change,
	}
}

// ValidateBillInput rejects carts that must never reach the ledger
func ValidateBillInput(input BillInput) error {
	var fieldErrors []apperror.FieldError

	for i, item := range input.Items {
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be positive",
			})
		}
		if item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].unit_price", i),
				Message: "unit price cannot be negative",
			})
		}
	}

	if input.DiscountAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "discount_amount",
			Message: "discount cannot be negative",
		})
	}

	if input.TaxRatePercent.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "tax_rate_percent",
			Message: "tax rate cannot be negative",
		})
	}

	if input.PaidAmount != nil && input.PaidAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   "paid_amount",
			Message: "paid amount cannot be negative",
		})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	// The discount check depends on the subtotal, so it runs after the
	// per-field checks pass.
	subtotal := decimal.Zero
	for _, item := range input.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	if input.DiscountAmount.GreaterThan(subtotal) {
		return apperror.NewValidationError([]apperror.FieldError{{
			Field:   "discount_amount",
			Message: "discount cannot exceed the cart subtotal",
		}})
	}

	return nil
}

// BillingService computes bill previews for the register UI
type BillingService struct {
	saleRepo repository.SaleRepository
}

// NewBillingService creates a new billing service
func NewBillingService(saleRepo repository.SaleRepository) *BillingService {
	return &BillingService{saleRepo: saleRepo}
}

// Preview validates and computes a bill without touching the ledger. When a
// customer mobile is supplied the prior balance is re-derived from their
// outstanding sales, overriding whatever the client sent.
func (s *BillingService) Preview(ctx context.Context, customerMobile string, input BillInput) (*Bill, error) {
	if err := ValidateBillInput(input); err != nil {
		return nil, err
	}

	if customerMobile != "" {
		prior, err := s.saleRepo.SumOutstandingByMobile(ctx, customerMobile, uuid.Nil)
		if err != nil {
			return nil, err
		}
		input.PriorBalance = prior
	}

	bill := ComputeBill(input)
	return &bill, nil
}
