package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/apperror"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// SalePaymentService handles payments applied against sales. Payment amounts
// count at face value towards is_paid; the exchange rate is stored for
// reporting only.
type SalePaymentService struct {
	saleRepo    repository.SaleRepository
	itemRepo    repository.SaleProductRepository
	paymentRepo repository.SalePaymentRepository
	methodRepo  repository.PaymentMethodRepository
	tx          repository.TxManager
}

// NewSalePaymentService creates a new sale payment service
func NewSalePaymentService(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleProductRepository,
	paymentRepo repository.SalePaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	tx repository.TxManager,
) *SalePaymentService {
	return &SalePaymentService{
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		paymentRepo: paymentRepo,
		methodRepo:  methodRepo,
		tx:          tx,
	}
}

// AddPaymentInput represents the add payment input
type AddPaymentInput struct {
	UserID          uuid.UUID
	PaymentMethodID uuid.UUID
	PaymentAmount   decimal.Decimal
	ExchangeRate    *decimal.Decimal
}

// AddPayment records a payment against a sale and rederives is_paid and the
// sale status. Overpayment is allowed; the exchange rate defaults to 1.
func (s *SalePaymentService) AddPayment(ctx context.Context, saleID uuid.UUID, input *AddPaymentInput) (*entity.Sale, error) {
	if !input.PaymentAmount.IsPositive() {
		return nil, apperror.NewFieldError("payment_amount", "must be greater than zero")
	}

	exchangeRate := decimal.NewFromInt(1)
	if input.ExchangeRate != nil {
		if !input.ExchangeRate.IsPositive() {
			return nil, apperror.NewFieldError("exchange_rate", "must be greater than zero")
		}
		exchangeRate = *input.ExchangeRate
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		method, err := s.methodRepo.GetByID(ctx, input.PaymentMethodID)
		if err != nil {
			return err
		}
		if method == nil {
			return apperror.NewNotFoundError("Payment method")
		}

		payment := &entity.SalePayment{
			SaleID:            sale.ID,
			PaymentMethodID:   method.ID,
			PaymentAmount:     input.PaymentAmount,
			ExchangeRate:      exchangeRate,
			PaymentMethodName: method.PaymentMethodName,
			CreatedBy:         input.UserID,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// UpdatePaymentInput represents the update payment input. Nil fields are left
// untouched.
type UpdatePaymentInput struct {
	PaymentMethodID *uuid.UUID
	PaymentAmount   *decimal.Decimal
	ExchangeRate    *decimal.Decimal
}

// UpdatePayment updates a recorded payment and rederives the sale's payment
// status
func (s *SalePaymentService) UpdatePayment(ctx context.Context, saleID, paymentID uuid.UUID, input *UpdatePaymentInput) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		payment, err := s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil || payment.SaleID != sale.ID {
			return apperror.NewNotFoundError("Sale payment")
		}

		if input.PaymentMethodID != nil {
			method, err := s.methodRepo.GetByID(ctx, *input.PaymentMethodID)
			if err != nil {
				return err
			}
			if method == nil {
				return apperror.NewNotFoundError("Payment method")
			}
			payment.PaymentMethodID = method.ID
			payment.PaymentMethodName = method.PaymentMethodName
		}

		if input.PaymentAmount != nil {
			if !input.PaymentAmount.IsPositive() {
				return apperror.NewFieldError("payment_amount", "must be greater than zero")
			}
			payment.PaymentAmount = *input.PaymentAmount
		}

		if input.ExchangeRate != nil {
			if !input.ExchangeRate.IsPositive() {
				return apperror.NewFieldError("exchange_rate", "must be greater than zero")
			}
			payment.ExchangeRate = *input.ExchangeRate
		}

		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// RemovePayment deletes a payment; a completed sale can drop back to pending
// when the remaining payments no longer cover the grand total
func (s *SalePaymentService) RemovePayment(ctx context.Context, saleID, paymentID uuid.UUID) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		payment, err := s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil || payment.SaleID != sale.ID {
			return apperror.NewNotFoundError("Sale payment")
		}

		if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
			return err
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// GetPayment retrieves a single payment
func (s *SalePaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*entity.SalePayment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Sale payment")
	}
	return payment, nil
}

// ListPayments lists the payments of a sale
func (s *SalePaymentService) ListPayments(ctx context.Context, saleID uuid.UUID) ([]entity.SalePayment, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.paymentRepo.GetBySaleID(ctx, saleID)
}

// ListAll lists payments across sales
func (s *SalePaymentService) ListAll(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SalePayment], error) {
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

func (s *SalePaymentService) lockOpenSale(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByIDForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status == enum.SaleStatusCancelled {
		return nil, apperror.NewBadRequestError("Cannot modify a cancelled sale")
	}
	return sale, nil
}

func (s *SalePaymentService) reconcile(ctx context.Context, sale *entity.Sale) error {
	items, err := s.itemRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return err
	}
	payments, err := s.paymentRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return err
	}

	sale.ApplyTotals(entity.SubTotalOf(items))
	sale.ApplyPaymentStatus(entity.TotalPaidOf(payments))
	return s.saleRepo.Update(ctx, sale)
}
