package repository

import (
	"context"

	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/infrastructure/database"
	"gorm.io/gorm"
)

type unitOfWork struct {
	store *database.Store
}

// NewUnitOfWork creates a unit of work over the live store
func NewUnitOfWork(store *database.Store) domainRepo.UnitOfWork {
	return &unitOfWork{store: store}
}

// Execute runs fn inside one store transaction. Every repository handed out
// by the provider shares that transaction, so the whole finalization
// protocol commits or rolls back as one.
func (u *unitOfWork) Execute(ctx context.Context, fn func(tx domainRepo.RepositoryProvider) error) error {
	return u.store.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&txProvider{src: txSource{tx: tx}})
	})
}

type txProvider struct {
	src txSource
}

func (p *txProvider) Shops() domainRepo.ShopRepository {
	return NewShopRepository(p.src)
}

func (p *txProvider) Products() domainRepo.ProductRepository {
	return NewProductRepository(p.src)
}

func (p *txProvider) Customers() domainRepo.CustomerRepository {
	return NewCustomerRepository(p.src)
}

func (p *txProvider) Sales() domainRepo.SaleRepository {
	return NewSaleRepository(p.src)
}

func (p *txProvider) SaleLineItems() domainRepo.SaleLineItemRepository {
	return NewSaleLineItemRepository(p.src)
}

func (p *txProvider) Payments() domainRepo.PaymentRepository {
	return NewPaymentRepository(p.src)
}

func (p *txProvider) Expenses() domainRepo.ExpenseRepository {
	return NewExpenseRepository(p.src)
}
