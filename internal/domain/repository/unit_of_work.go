package repository

import "context"

// RepositoryProvider hands out repository instances bound to one
// transaction. Everything obtained from the same provider reads and writes
// the same uncommitted state.
type RepositoryProvider interface {
	Shops() ShopRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Sales() SaleRepository
	SaleLineItems() SaleLineItemRepository
	Payments() PaymentRepository
	Expenses() ExpenseRepository
}

// UnitOfWork runs fn inside a single store transaction. The sale
// finalization protocol (header, line items, stock, settlement) lives in
// one Execute call: an error from fn rolls the whole transaction back and
// nothing becomes visible.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx RepositoryProvider) error) error
}
