package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/sangkips/shopledger-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaleService finalizes carts into immutable sale records and answers
// ledger queries
type SaleService struct {
	uow         repository.UnitOfWork
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	snapshots   *SnapshotService
}

// NewSaleService creates a new sale service
func NewSaleService(
	uow repository.UnitOfWork,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	snapshots *SnapshotService,
) *SaleService {
	return &SaleService{
		uow:         uow,
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		snapshots:   snapshots,
	}
}

// FinalizeSaleInput is a cart ready to become a sale
type FinalizeSaleInput struct {
	ShopID         uuid.UUID
	Items          []CartItem
	DiscountAmount decimal.Decimal
	// TaxRatePercent nil means the shop's default rate applies
	TaxRatePercent *decimal.Decimal
	CustomerName   *string
	CustomerMobile *string
	// PaidAmount nil means the customer pays the grand total exactly
	PaidAmount    *decimal.Decimal
	PaymentMethod enum.PaymentMethod
	// ExpectedGrandTotal guards against finalizing a cart the UI computed
	// from stale data; nil skips the check
	ExpectedGrandTotal *decimal.Decimal
}

// FinalizeSale turns a cart into a permanent sale: header, line items,
// stock adjustments and any leftover-payment settlement all commit in one
// transaction, or none of them do.
//
// The sale's stored total is the grand total, prior balance included; the
// denormalized customer fields and line item figures are snapshots taken
// now and never rewritten by later catalog or customer edits.
func (s *SaleService) FinalizeSale(ctx context.Context, input *FinalizeSaleInput) (*entity.Sale, error) {
	billInput := BillInput{
		Items:          input.Items,
		DiscountAmount: input.DiscountAmount,
		PaidAmount:     input.PaidAmount,
	}
	if input.TaxRatePercent != nil {
		billInput.TaxRatePercent = *input.TaxRatePercent
	}
	if err := ValidateBillInput(billInput); err != nil {
		return nil, err
	}

	mobile := ""
	if input.CustomerMobile != nil {
		mobile = strings.TrimSpace(*input.CustomerMobile)
	}

	// An empty cart can only be a payment against old debt, which needs a
	// customer to owe it.
	if len(input.Items) == 0 && mobile == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "items",
			Message: "cart is empty and no customer was given to settle debt for",
		}})
	}

	var saleID uuid.UUID

	err := s.uow.Execute(ctx, func(tx repository.RepositoryProvider) error {
		shop, err := tx.Shops().GetByID(ctx, input.ShopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return apperror.NewNotFoundError("Shop")
		}

		taxRate := shop.DefaultTaxRate
		if input.TaxRatePercent != nil {
			taxRate = *input.TaxRatePercent
		}

		// Prior balance is re-derived inside the transaction so the bill
		// reflects settlements that landed after the UI preview.
		var outstanding []entity.Sale
		prior := decimal.Zero
		if mobile != "" {
			outstanding, err = tx.Sales().ListOutstandingByMobile(ctx, mobile, uuid.Nil)
			if err != nil {
				return err
			}
			for _, o := range outstanding {
				prior = prior.Add(o.BalanceDue)
			}
		}

		if len(input.Items) == 0 && prior.IsZero() {
			return apperror.NewValidationError([]apperror.FieldError{{
				Field:   "items",
				Message: "cart is empty and the customer has no outstanding balance",
			}})
		}

		bill := ComputeBill(BillInput{
			Items:          input.Items,
			DiscountAmount: input.DiscountAmount,
			TaxRatePercent: taxRate,
			PriorBalance:   prior,
			PaidAmount:     input.PaidAmount,
		})

		if input.ExpectedGrandTotal != nil && !input.ExpectedGrandTotal.Equal(bill.GrandTotal) {
			return apperror.NewValidationError([]apperror.FieldError{{
				Field: "expected_grand_total",
				Message: fmt.Sprintf("cart is stale: expected grand total %s, recomputed %s",
					input.ExpectedGrandTotal.String(), bill.GrandTotal.String()),
			}})
		}

		saleDate := time.Now()
		sale := &entity.Sale{
			SaleNo:         utils.GenerateSaleNo(shop.Code, saleDate),
			ShopID:         shop.ID,
			SaleDate:       saleDate,
			Subtotal:       bill.Subtotal,
			Discount:       bill.Discount,
			TaxRatePercent: taxRate,
			TaxAmount:      bill.TaxAmount,
			Total:          bill.GrandTotal,
			PaidAmount:     bill.PaidAmount,
			BalanceDue:     bill.BalanceDue,
			CustomerName:   input.CustomerName,
		}
		if mobile != "" {
			sale.CustomerMobile = &mobile
		}

		if err := tx.Sales().Create(ctx, sale); err != nil {
			return apperror.NewStorageWriteError(err.Error())
		}

		if len(input.Items) > 0 {
			if err := s.writeLineItems(ctx, tx, shop.ID, sale.ID, input.Items); err != nil {
				return err
			}
		}

		// The at-sale payment covers the current bill; anything beyond it
		// walks the customer's old invoices oldest first. Both happen in
		// this same transaction.
		leftover := bill.PaidAmount.Sub(bill.GrandTotal.Sub(bill.PriorBalance))

		atSale := bill.PaidAmount
		if leftover.IsPositive() {
			atSale = bill.PaidAmount.Sub(leftover)
		}
		if atSale.IsPositive() {
			payment := &entity.Payment{
				SaleID: sale.ID,
				Amount: atSale,
				Method: input.PaymentMethod,
				Source: enum.PaymentSourceSale,
				PaidAt: saleDate,
			}
			if err := tx.Payments().Create(ctx, payment); err != nil {
				return apperror.NewStorageWriteError(err.Error())
			}
		}

		if leftover.IsPositive() && len(outstanding) > 0 {
			allocations, _ := AllocateOldestFirst(leftover, outstanding)
			for _, alloc := range allocations {
				old := alloc.Sale
				old.PaidAmount = old.PaidAmount.Add(alloc.Amount)
				old.BalanceDue = old.BalanceDue.Sub(alloc.Amount)

				if err := tx.Sales().Update(ctx, old); err != nil {
					return apperror.NewStorageWriteError(err.Error())
				}

				payment := &entity.Payment{
					SaleID: old.ID,
					Amount: alloc.Amount,
					Method: input.PaymentMethod,
					Source: enum.PaymentSourceSettlement,
					PaidAt: saleDate,
				}
				if err := tx.Payments().Create(ctx, payment); err != nil {
					return apperror.NewStorageWriteError(err.Error())
				}
			}
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Snapshot failure never unwinds a committed sale; the snapshot
	// service keeps the failure visible until a later persist succeeds.
	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after sale finalization failed: %v", err)
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// writeLineItems validates the cart against the catalog, inserts the
// denormalized line items and applies stock movement per line: sales
// decrement, returns increment. Stock may go negative; the register never
// blocks a sale over a miscounted shelf.
func (s *SaleService) writeLineItems(ctx context.Context, tx repository.RepositoryProvider, shopID, saleID uuid.UUID, cart []CartItem) error {
	productNos := make([]int64, 0, len(cart))
	seen := make(map[int64]bool, len(cart))
	for _, item := range cart {
		if !seen[item.ProductNo] {
			seen[item.ProductNo] = true
			productNos = append(productNos, item.ProductNo)
		}
	}

	products, err := tx.Products().GetByNos(ctx, shopID, productNos)
	if err != nil {
		return err
	}
	productMap := make(map[int64]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ProductNo] = &products[i]
	}

	items := make([]entity.SaleLineItem, 0, len(cart))
	for _, ci := range cart {
		product, exists := productMap[ci.ProductNo]
		if !exists {
			return apperror.NewNotFoundError(fmt.Sprintf("Product %d", ci.ProductNo))
		}

		description := ci.Description
		if description == "" {
			description = product.Description
		}

		items = append(items, entity.SaleLineItem{
			SaleID:      saleID,
			ProductNo:   ci.ProductNo,
			Description: description,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice,
			IsReturn:    ci.IsReturn,
			TaxCode:     ci.TaxCode,
		})
	}

	if err := tx.SaleLineItems().CreateBatch(ctx, items); err != nil {
		return apperror.NewStorageWriteError(err.Error())
	}

	for _, ci := range cart {
		delta := ci.Quantity.Neg()
		if ci.IsReturn {
			delta = ci.Quantity
		}
		if err := tx.Products().AdjustStock(ctx, shopID, ci.ProductNo, delta); err != nil {
			return apperror.NewStorageWriteError(err.Error())
		}
	}
	return nil
}

// GetSale retrieves a sale with its line items and payments
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListPayments returns a sale's full payment trail, at-sale and settlement
// rows alike
func (s *SaleService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]entity.Payment, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.paymentRepo.GetBySaleID(ctx, saleID)
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, shopID uuid.UUID, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, shopID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, shopID uuid.UUID, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, shopID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(s entity.Sale) string { return s.ID.String() },
		func(s entity.Sale) time.Time { return s.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetOutstandingSales returns sales with a balance still due, oldest first
func (s *SaleService) GetOutstandingSales(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.ListOutstanding(ctx, shopID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}
