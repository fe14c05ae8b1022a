package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/apperror"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// PaymentMethodService handles payment method operations
type PaymentMethodService struct {
	methodRepo repository.PaymentMethodRepository
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(methodRepo repository.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// CreatePaymentMethod creates a new payment method
func (s *PaymentMethodService) CreatePaymentMethod(ctx context.Context, name string, createdBy uuid.UUID) (*entity.PaymentMethod, error) {
	method := &entity.PaymentMethod{
		PaymentMethodName: name,
		CreatedBy:         createdBy,
	}
	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

// GetPaymentMethod retrieves a payment method by ID
func (s *PaymentMethodService) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.NewNotFoundError("Payment method")
	}
	return method, nil
}

// ListPaymentMethods lists payment methods with pagination
func (s *PaymentMethodService) ListPaymentMethods(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.PaymentMethod], error) {
	methods, total, err := s.methodRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(methods, pag), nil
}

// UpdatePaymentMethod renames a payment method. Existing payments keep the
// name snapshot taken at payment time.
func (s *PaymentMethodService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, name string) (*entity.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.NewNotFoundError("Payment method")
	}

	method.PaymentMethodName = name
	if err := s.methodRepo.Update(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

// DeletePaymentMethod deletes a payment method
func (s *PaymentMethodService) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if method == nil {
		return apperror.NewNotFoundError("Payment method")
	}
	return s.methodRepo.Delete(ctx, id)
}
