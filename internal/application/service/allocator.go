package service

import (
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Allocation is one slice of a settlement applied to a single sale
type Allocation struct {
	Sale   *entity.Sale
	Amount decimal.Decimal
}

// AllocateOldestFirst spreads amount across outstanding sales in the order
// given, paying each balance down as far as the remaining amount allows
// before moving to the next. Callers pass sales already sorted oldest
// first; the walk preserves that order, so allocation is deterministic.
//
// No balance is ever driven below zero. Whatever is left after the last
// outstanding balance is returned as the remainder: it is change to hand
// back, not ledger state.
func AllocateOldestFirst(amount decimal.Decimal, outstanding []entity.Sale) ([]Allocation, decimal.Decimal) {
	allocations := make([]Allocation, 0, len(outstanding))
	remaining := amount

	for i := range outstanding {
		if !remaining.IsPositive() {
			break
		}
		sale := &outstanding[i]
		if sale.IsSettled() {
			continue
		}

		pay := decimal.Min(remaining, sale.BalanceDue)
		allocations = append(allocations, Allocation{Sale: sale, Amount: pay})
		remaining = remaining.Sub(pay)
	}

	return allocations, remaining
}
