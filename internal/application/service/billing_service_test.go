package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func checkBill(t *testing.T, got, want Bill) {
	t.Helper()
	assertDecimal(t, "subtotal", got.Subtotal, want.Subtotal)
	assertDecimal(t, "discount", got.Discount, want.Discount)
	assertDecimal(t, "tax_amount", got.TaxAmount, want.TaxAmount)
	assertDecimal(t, "current_bill", got.CurrentBill, want.CurrentBill)
	assertDecimal(t, "prior_balance", got.PriorBalance, want.PriorBalance)
	assertDecimal(t, "grand_total", got.GrandTotal, want.GrandTotal)
	assertDecimal(t, "paid_amount", got.PaidAmount, want.PaidAmount)
	assertDecimal(t, "balance_due", got.BalanceDue, want.BalanceDue)
	assertDecimal(t, "change", got.Change, want.Change)
}

func TestComputeBill(t *testing.T) {
	cart := []CartItem{
		{ProductNo: 1, Description: "Rice 1kg", Quantity: d("2"), UnitPrice: d("50")},
		{ProductNo: 2, Description: "Cooking Oil", Quantity: d("1"), UnitPrice: d("100")},
	}

	tests := []struct {
		name  string
		input BillInput
		want  Bill
	}{
		{
			name: "discount and tax with prior balance, exact payment",
			input: BillInput{
				Items:          cart,
				DiscountAmount: d("20"),
				TaxRatePercent: d("10"),
				PriorBalance:   d("50"),
			},
			want: Bill{
				Subtotal:     d("200"),
				Discount:     d("20"),
				TaxAmount:    d("18"),
				CurrentBill:  d("198"),
				PriorBalance: d("50"),
				GrandTotal:   d("248"),
				PaidAmount:   d("248"),
				BalanceDue:   d("0"),
				Change:       d("0"),
			},
		},
		{
			name: "overpayment yields change, never negative balance",
			input: BillInput{
				Items:          cart,
				DiscountAmount: d("20"),
				TaxRatePercent: d("10"),
				PriorBalance:   d("50"),
				PaidAmount:     decPtr("300"),
			},
			want: Bill{
				Subtotal:     d("200"),
				Discount:     d("20"),
				TaxAmount:    d("18"),
				CurrentBill:  d("198"),
				PriorBalance: d("50"),
				GrandTotal:   d("248"),
				PaidAmount:   d("300"),
				BalanceDue:   d("0"),
				Change:       d("52"),
			},
		},
		{
			name: "underpayment leaves balance due, no change",
			input: BillInput{
				Items:          cart,
				DiscountAmount: d("20"),
				TaxRatePercent: d("10"),
				PriorBalance:   d("50"),
				PaidAmount:     decPtr("100"),
			},
			want: Bill{
				Subtotal:     d("200"),
				Discount:     d("20"),
				TaxAmount:    d("18"),
				CurrentBill:  d("198"),
				PriorBalance: d("50"),
				GrandTotal:   d("248"),
				PaidAmount:   d("100"),
				BalanceDue:   d("148"),
				Change:       d("0"),
			},
		},
		{
			name: "return lines subtract from the subtotal",
			input: BillInput{
				Items: []CartItem{
					{ProductNo: 1, Quantity: d("3"), UnitPrice: d("40")},
					{ProductNo: 2, Quantity: d("1"), UnitPrice: d("20"), IsReturn: true},
				},
			},
			want: Bill{
				Subtotal:    d("100"),
				CurrentBill: d("100"),
				GrandTotal:  d("100"),
				PaidAmount:  d("100"),
			},
		},
		{
			name: "all returns produce a refund-shaped bill",
			input: BillInput{
				Items: []CartItem{
					{ProductNo: 1, Quantity: d("2"), UnitPrice: d("30"), IsReturn: true},
				},
				TaxRatePercent: d("10"),
			},
			want: Bill{
				Subtotal:    d("-60"),
				TaxAmount:   d("-6"),
				CurrentBill: d("-66"),
				GrandTotal:  d("-66"),
				PaidAmount:  d("-66"),
			},
		},
		{
			name: "tax rounds half up to two places",
			input: BillInput{
				Items: []CartItem{
					{ProductNo: 1, Quantity: d("1"), UnitPrice: d("9.99")},
				},
				TaxRatePercent: d("8.25"),
			},
			want: Bill{
				Subtotal:    d("9.99"),
				TaxAmount:   d("0.82"),
				CurrentBill: d("10.81"),
				GrandTotal:  d("10.81"),
				PaidAmount:  d("10.81"),
			},
		},
		{
			name: "fractional quantities stay exact",
			input: BillInput{
				Items: []CartItem{
					{ProductNo: 1, Quantity: d("0.25"), UnitPrice: d("120")},
					{ProductNo: 2, Quantity: d("1.5"), UnitPrice: d("33.40")},
				},
			},
			want: Bill{
				Subtotal:    d("80.10"),
				CurrentBill: d("80.10"),
				GrandTotal:  d("80.10"),
				PaidAmount:  d("80.10"),
			},
		},
		{
			name: "empty cart against prior balance is a pure settlement bill",
			input: BillInput{
				TaxRatePercent: d("10"),
				PriorBalance:   d("50"),
				PaidAmount:     decPtr("70"),
			},
			want: Bill{
				PriorBalance: d("50"),
				GrandTotal:   d("50"),
				PaidAmount:   d("70"),
				Change:       d("20"),
			},
		},
		{
			name: "zero tax rate means zero tax",
			input: BillInput{
				Items: []CartItem{
					{ProductNo: 1, Quantity: d("2"), UnitPrice: d("50")},
				},
				DiscountAmount: d("10"),
			},
			want: Bill{
				Subtotal:    d("100"),
				Discount:    d("10"),
				CurrentBill: d("90"),
				GrandTotal:  d("90"),
				PaidAmount:  d("90"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBill(tt.input)
			checkBill(t, got, tt.want)
		})
	}
}

func TestComputeBillIsPure(t *testing.T) {
	input := BillInput{
		Items: []CartItem{
			{ProductNo: 1, Quantity: d("2"), UnitPrice: d("50")},
		},
		DiscountAmount: d("5"),
		TaxRatePercent: d("16"),
		PriorBalance:   d("12.50"),
	}

	first := ComputeBill(input)
	second := ComputeBill(input)
	checkBill(t, second, first)
}

func TestValidateBillInput(t *testing.T) {
	validCart := []CartItem{
		{ProductNo: 1, Quantity: d("2"), UnitPrice: d("50")},
	}

	tests := []struct {
		name      string
		input     BillInput
		wantField string
	}{
		{
			name:  "valid input passes",
			input: BillInput{Items: validCart, DiscountAmount: d("10"), TaxRatePercent: d("16")},
		},
		{
			name: "zero quantity rejected",
			input: BillInput{Items: []CartItem{
				{ProductNo: 1, Quantity: d("0"), UnitPrice: d("50")},
			}},
			wantField: "items[0].quantity",
		},
		{
			name: "negative quantity rejected even on returns",
			input: BillInput{Items: []CartItem{
				{ProductNo: 1, Quantity: d("-1"), UnitPrice: d("50"), IsReturn: true},
			}},
			wantField: "items[0].quantity",
		},
		{
			name: "negative unit price rejected",
			input: BillInput{Items: []CartItem{
				{ProductNo: 1, Quantity: d("1"), UnitPrice: d("-5")},
			}},
			wantField: "items[0].unit_price",
		},
		{
			name:      "negative discount rejected",
			input:     BillInput{Items: validCart, DiscountAmount: d("-1")},
			wantField: "discount_amount",
		},
		{
			name:      "negative tax rate rejected",
			input:     BillInput{Items: validCart, TaxRatePercent: d("-16")},
			wantField: "tax_rate_percent",
		},
		{
			name:      "negative paid amount rejected",
			input:     BillInput{Items: validCart, PaidAmount: decPtr("-10")},
			wantField: "paid_amount",
		},
		{
			name:      "discount above subtotal rejected",
			input:     BillInput{Items: validCart, DiscountAmount: d("100.01")},
			wantField: "discount_amount",
		},
		{
			name:  "discount equal to subtotal allowed",
			input: BillInput{Items: validCart, DiscountAmount: d("100")},
		},
		{
			name:  "zero paid amount allowed, everything goes on credit",
			input: BillInput{Items: validCart, PaidAmount: decPtr("0")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBillInput(tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != 422 {
				t.Errorf("code = %d, want 422", appErr.Code)
			}
			found := false
			for _, fe := range appErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a field error on %q, got %+v", tt.wantField, appErr.Errors)
			}
		})
	}
}

func TestBillingPreviewDerivesPriorBalance(t *testing.T) {
	mobile := "0712345678"
	saleRepo := newFakeSaleRepo(
		entity.Sale{ID: uuid.New(), SaleNo: "MAIN-1", CustomerMobile: &mobile, BalanceDue: d("30")},
		entity.Sale{ID: uuid.New(), SaleNo: "MAIN-2", CustomerMobile: &mobile, BalanceDue: d("20")},
	)
	svc := NewBillingService(saleRepo)

	input := BillInput{
		Items: []CartItem{
			{ProductNo: 1, Quantity: d("1"), UnitPrice: d("100")},
		},
		TaxRatePercent: d("10"),
		// Whatever the client claims is overridden by the ledger.
		PriorBalance: d("999"),
	}

	bill, err := svc.Preview(context.Background(), mobile, input)
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	assertDecimal(t, "prior_balance", bill.PriorBalance, d("50"))
	assertDecimal(t, "grand_total", bill.GrandTotal, d("160"))
}

func TestBillingPreviewWithoutCustomer(t *testing.T) {
	svc := NewBillingService(newFakeSaleRepo())

	input := BillInput{
		Items: []CartItem{
			{ProductNo: 1, Quantity: d("1"), UnitPrice: d("100")},
		},
	}

	bill, err := svc.Preview(context.Background(), "", input)
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	assertDecimal(t, "prior_balance", bill.PriorBalance, decimal.Zero)
	assertDecimal(t, "grand_total", bill.GrandTotal, d("100"))
}

func TestBillingPreviewRejectsInvalidCart(t *testing.T) {
	svc := NewBillingService(newFakeSaleRepo())

	input := BillInput{
		Items: []CartItem{
			{ProductNo: 1, Quantity: d("0"), UnitPrice: d("100")},
		},
	}

	_, err := svc.Preview(context.Background(), "", input)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 422 {
		t.Errorf("code = %d, want 422", appErr.Code)
	}
}
