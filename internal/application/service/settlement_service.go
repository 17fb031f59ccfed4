package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/entity"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SettlementService applies payments against outstanding sales, either one
// sale directly or a customer's whole tab oldest first
type SettlementService struct {
	uow       repository.UnitOfWork
	saleRepo  repository.SaleRepository
	snapshots *SnapshotService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	uow repository.UnitOfWork,
	saleRepo repository.SaleRepository,
	snapshots *SnapshotService,
) *SettlementService {
	return &SettlementService{
		uow:       uow,
		saleRepo:  saleRepo,
		snapshots: snapshots,
	}
}

// SaleAllocationResult describes how much of a settlement landed on one sale
type SaleAllocationResult struct {
	SaleID           uuid.UUID       `json:"sale_id"`
	SaleNo           string          `json:"sale_no"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// CustomerSettlementResult is the outcome of settling a customer's balance
type CustomerSettlementResult struct {
	CustomerMobile string                 `json:"customer_mobile"`
	Applied        decimal.Decimal        `json:"applied"`
	Change         decimal.Decimal        `json:"change"`
	Allocations    []SaleAllocationResult `json:"allocations"`
}

// SettleSale records a payment against one specific sale. The paid amount
// always grows by the full payment; the balance stops at zero, so paying
// more than is owed leaves an overshoot visible in paid_amount.
func (s *SettlementService) SettleSale(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal, method enum.PaymentMethod) (*entity.Sale, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "amount",
			Message: "settlement amount must be positive",
		}})
	}

	err := s.uow.Execute(ctx, func(tx repository.RepositoryProvider) error {
		sale, err := tx.Sales().GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		sale.PaidAmount = sale.PaidAmount.Add(amount)
		newBalance := sale.BalanceDue.Sub(amount)
		if newBalance.IsNegative() {
			newBalance = decimal.Zero
		}
		sale.BalanceDue = newBalance

		if err := tx.Sales().Update(ctx, sale); err != nil {
			return apperror.NewStorageWriteError(err.Error())
		}

		payment := &entity.Payment{
			SaleID: sale.ID,
			Amount: amount,
			Method: method,
			Source: enum.PaymentSourceDirect,
			PaidAt: time.Now(),
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return apperror.NewStorageWriteError(err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after settlement failed: %v", err)
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// SettleCustomerBalance spreads a payment across every outstanding sale for
// the customer, oldest first. One payment row is appended per touched sale;
// any remainder is reported back as change and never stored.
func (s *SettlementService) SettleCustomerBalance(ctx context.Context, mobile string, amount decimal.Decimal, method enum.PaymentMethod) (*CustomerSettlementResult, error) {
	if mobile == "" {
		return nil, apperror.NewBadRequestError("Customer mobile is required")
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "amount",
			Message: "settlement amount must be positive",
		}})
	}

	result := &CustomerSettlementResult{CustomerMobile: mobile}

	err := s.uow.Execute(ctx, func(tx repository.RepositoryProvider) error {
		outstanding, err := tx.Sales().ListOutstandingByMobile(ctx, mobile, uuid.Nil)
		if err != nil {
			return err
		}
		if len(outstanding) == 0 {
			return apperror.NewBadRequestError("Customer has no outstanding balance")
		}

		allocations, change := AllocateOldestFirst(amount, outstanding)
		paidAt := time.Now()

		for _, alloc := range allocations {
			sale := alloc.Sale
			sale.PaidAmount = sale.PaidAmount.Add(alloc.Amount)
			sale.BalanceDue = sale.BalanceDue.Sub(alloc.Amount)

			if err := tx.Sales().Update(ctx, sale); err != nil {
				return apperror.NewStorageWriteError(err.Error())
			}

			payment := &entity.Payment{
				SaleID: sale.ID,
				Amount: alloc.Amount,
				Method: method,
				Source: enum.PaymentSourceSettlement,
				PaidAt: paidAt,
			}
			if err := tx.Payments().Create(ctx, payment); err != nil {
				return apperror.NewStorageWriteError(err.Error())
			}

			result.Allocations = append(result.Allocations, SaleAllocationResult{
				SaleID:           sale.ID,
				SaleNo:           sale.SaleNo,
				Amount:           alloc.Amount,
				RemainingBalance: sale.BalanceDue,
			})
		}

		result.Applied = amount.Sub(change)
		result.Change = change
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.PersistAfterCommit(ctx); err != nil {
		log.Printf("Snapshot persist after settlement failed: %v", err)
	}

	return result, nil
}
