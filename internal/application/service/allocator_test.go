package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func outstandingSales(balances ...string) []entity.Sale {
	sales := make([]entity.Sale, 0, len(balances))
	for i, b := range balances {
		sales = append(sales, entity.Sale{
			ID:         uuid.New(),
			SaleNo:     "MAIN-" + string(rune('A'+i)),
			BalanceDue: d(b),
		})
	}
	return sales
}

func TestAllocateOldestFirst(t *testing.T) {
	tests := []struct {
		name          string
		amount        decimal.Decimal
		balances      []string
		wantAmounts   []string
		wantRemainder string
	}{
		{
			name:          "partial payment stops mid-walk",
			amount:        d("70"),
			balances:      []string{"30", "50", "20"},
			wantAmounts:   []string{"30", "40"},
			wantRemainder: "0",
		},
		{
			name:          "payment beyond all balances returns the excess",
			amount:        d("120"),
			balances:      []string{"30", "50", "20"},
			wantAmounts:   []string{"30", "50", "20"},
			wantRemainder: "20",
		},
		{
			name:          "small payment only touches the oldest sale",
			amount:        d("10"),
			balances:      []string{"30", "50"},
			wantAmounts:   []string{"10"},
			wantRemainder: "0",
		},
		{
			name:          "exact single balance",
			amount:        d("30"),
			balances:      []string{"30", "50"},
			wantAmounts:   []string{"30"},
			wantRemainder: "0",
		},
		{
			name:          "settled sales in the list are skipped",
			amount:        d("30"),
			balances:      []string{"0", "25"},
			wantAmounts:   []string{"25"},
			wantRemainder: "5",
		},
		{
			name:          "zero amount allocates nothing",
			amount:        d("0"),
			balances:      []string{"30"},
			wantAmounts:   nil,
			wantRemainder: "0",
		},
		{
			name:          "no outstanding sales returns everything",
			amount:        d("45"),
			balances:      nil,
			wantAmounts:   nil,
			wantRemainder: "45",
		},
		{
			name:          "fractional amounts split exactly",
			amount:        d("10.75"),
			balances:      []string{"5.25", "9.99"},
			wantAmounts:   []string{"5.25", "5.50"},
			wantRemainder: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outstanding := outstandingSales(tt.balances...)

			allocations, remainder := AllocateOldestFirst(tt.amount, outstanding)

			if len(allocations) != len(tt.wantAmounts) {
				t.Fatalf("allocation count = %d, want %d", len(allocations), len(tt.wantAmounts))
			}
			for i, want := range tt.wantAmounts {
				assertDecimal(t, fmt.Sprintf("allocations[%d].amount", i), allocations[i].Amount, d(want))
			}
			assertDecimal(t, "remainder", remainder, d(tt.wantRemainder))
		})
	}
}

func TestAllocateOldestFirstPreservesOrder(t *testing.T) {
	outstanding := outstandingSales("10", "10", "10")

	allocations, _ := AllocateOldestFirst(d("25"), outstanding)

	if len(allocations) != 3 {
		t.Fatalf("allocation count = %d, want 3", len(allocations))
	}
	for i, alloc := range allocations {
		if alloc.Sale.ID != outstanding[i].ID {
			t.Errorf("allocation %d hit sale %s, want %s in input order", i, alloc.Sale.SaleNo, outstanding[i].SaleNo)
		}
	}
	assertDecimal(t, "last allocation", allocations[2].Amount, d("5"))
}

func TestAllocateOldestFirstPointsAtInputSales(t *testing.T) {
	outstanding := outstandingSales("30")

	allocations, _ := AllocateOldestFirst(d("30"), outstanding)

	if len(allocations) != 1 {
		t.Fatalf("allocation count = %d, want 1", len(allocations))
	}
	// Callers mutate the allocated sale in place, so the pointer must
	// target the caller's slice element rather than a copy.
	allocations[0].Sale.PaidAmount = d("30")
	if !outstanding[0].PaidAmount.Equal(d("30")) {
		t.Error("allocation does not point into the input slice")
	}
}
