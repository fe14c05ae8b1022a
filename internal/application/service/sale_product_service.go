package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/apperror"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// SaleProductService handles sale line-item operations
type SaleProductService struct {
	saleRepo    repository.SaleRepository
	itemRepo    repository.SaleProductRepository
	paymentRepo repository.SalePaymentRepository
	productRepo repository.ProductRepository
	tx          repository.TxManager
}

// NewSaleProductService creates a new sale product service
func NewSaleProductService(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleProductRepository,
	paymentRepo repository.SalePaymentRepository,
	productRepo repository.ProductRepository,
	tx repository.TxManager,
) *SaleProductService {
	return &SaleProductService{
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		tx:          tx,
	}
}

// AddItems appends line items to a sale. All lines are validated up front and
// the first invalid one aborts the whole batch; totals are recalculated once
// after every line is written.
func (s *SaleProductService) AddItems(ctx context.Context, saleID, userID uuid.UUID, inputs []SaleItemInput) (*entity.Sale, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewFieldError("products", "must not be empty")
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		items := make([]entity.SaleProduct, 0, len(inputs))
		for _, in := range inputs {
			if err := validateItem(&in); err != nil {
				return err
			}
			product, err := s.productRepo.GetByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError(fmt.Sprintf("Product %s", in.ProductID))
			}

			items = append(items, entity.SaleProduct{
				SaleID:      sale.ID,
				ProductID:   in.ProductID,
				Quantity:    in.Quantity,
				Price:       in.Price,
				IsFree:      in.IsFree,
				ProductName: product.Name,
				Image:       product.Image,
				CreatedBy:   userID,
			})
		}

		if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// UpdateItemInput represents the update line-item input. Nil fields are left
// untouched.
type UpdateItemInput struct {
	Quantity *int
	Price    *decimal.Decimal
	IsFree   *bool
}

// UpdateItem updates a line item. A quantity or price change triggers a full
// recalculation of the sale's totals.
func (s *SaleProductService) UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, input *UpdateItemInput) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		item, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.SaleID != sale.ID {
			return apperror.NewNotFoundError("Sale product")
		}

		recalc := false
		if input.Quantity != nil && *input.Quantity != item.Quantity {
			if *input.Quantity < 1 {
				return apperror.NewFieldError("quantity", "must be at least 1")
			}
			item.Quantity = *input.Quantity
			recalc = true
		}
		if input.Price != nil && !input.Price.Equal(item.Price) {
			if input.Price.IsNegative() {
				return apperror.NewFieldError("price", "must not be negative")
			}
			item.Price = *input.Price
			recalc = true
		}
		if input.IsFree != nil {
			item.IsFree = *input.IsFree
		}

		if err := s.itemRepo.Update(ctx, item); err != nil {
			return err
		}
		if recalc {
			return s.reconcile(ctx, sale)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// RemoveItem deletes a line item and recalculates the sale's totals
func (s *SaleProductService) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.lockOpenSale(ctx, saleID)
		if err != nil {
			return err
		}

		item, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.SaleID != sale.ID {
			return apperror.NewNotFoundError("Sale product")
		}

		if err := s.itemRepo.Delete(ctx, itemID); err != nil {
			return err
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// GetItem retrieves a single line item
func (s *SaleProductService) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.SaleProduct, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Sale product")
	}
	return item, nil
}

// ListItems lists the line items of a sale
func (s *SaleProductService) ListItems(ctx context.Context, saleID uuid.UUID) ([]entity.SaleProduct, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.itemRepo.GetBySaleID(ctx, saleID)
}

// ListAll lists line items across sales
func (s *SaleProductService) ListAll(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleProduct], error) {
	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// lockOpenSale fetches the sale under a row lock and rejects cancelled sales
func (s *SaleProductService) lockOpenSale(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
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

func (s *SaleProductService) reconcile(ctx context.Context, sale *entity.Sale) error {
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
