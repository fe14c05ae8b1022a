package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/apperror"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// SaleService handles sale-related operations. Every mutation runs inside a
// transaction and ends with a single recalculation of the sale's derived
// fields (sub_total, grand_total, is_paid, status).
type SaleService struct {
	saleRepo    repository.SaleRepository
	itemRepo    repository.SaleProductRepository
	paymentRepo repository.SalePaymentRepository
	productRepo repository.ProductRepository
	tableRepo   repository.TableRepository
	tx          repository.TxManager
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleProductRepository,
	paymentRepo repository.SalePaymentRepository,
	productRepo repository.ProductRepository,
	tableRepo repository.TableRepository,
	tx repository.TxManager,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		itemRepo:    itemRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		tableRepo:   tableRepo,
		tx:          tx,
	}
}

// SaleItemInput represents a line item on a create/update sale request
type SaleItemInput struct {
	ID        *uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	IsFree    bool
}

// CreateSaleInput represents the create sale input. SubTotal and GrandTotal
// are only honored when no line items are supplied; with items present the
// recalculation from persisted lines overwrites both.
type CreateSaleInput struct {
	UserID       uuid.UUID
	TableID      *uuid.UUID
	SubTotal     decimal.Decimal
	GrandTotal   *decimal.Decimal
	DiscountType *enum.DiscountType
	Discount     decimal.Decimal
	SaleDate     *time.Time
	Items        []SaleItemInput
}

// UpdateSaleInput represents the update sale input. Nil fields are left
// untouched; a non-nil Items slice is authoritative and replaces the sale's
// line items by diff.
type UpdateSaleInput struct {
	UserID        uuid.UUID
	TableID       *uuid.UUID
	SubTotal      *decimal.Decimal
	DiscountType  *enum.DiscountType
	ClearDiscount bool
	Discount      *decimal.Decimal
	SaleDate      *time.Time
	Items         []SaleItemInput
}

// CreateSale creates a new sale with its initial line items
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if err := validateDiscount(input.DiscountType, input.Discount); err != nil {
		return nil, err
	}
	if input.SubTotal.IsNegative() {
		return nil, apperror.NewFieldError("sub_total", "must not be negative")
	}
	if input.GrandTotal != nil && input.GrandTotal.IsNegative() {
		return nil, apperror.NewFieldError("grand_total", "must not be negative")
	}

	if input.TableID != nil {
		table, err := s.tableRepo.GetByID(ctx, *input.TableID)
		if err != nil {
			return nil, err
		}
		if table == nil {
			return nil, apperror.NewNotFoundError("Table")
		}
	}

	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	sale := &entity.Sale{
		DiscountType: input.DiscountType,
		Discount:     input.Discount,
		Status:       enum.SaleStatusPending,
		SaleDate:     saleDate,
		TableID:      input.TableID,
		CreatedBy:    input.UserID,
	}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		items, err := s.buildItems(ctx, input.UserID, input.Items)
		if err != nil {
			return err
		}

		if len(items) > 0 {
			sale.ApplyTotals(entity.SubTotalOf(items))
		} else {
			sale.SubTotal = input.SubTotal
			if input.GrandTotal != nil {
				sale.GrandTotal = *input.GrandTotal
			} else {
				sale.GrandTotal = sale.GrandTotalFor(input.SubTotal)
			}
		}
		sale.ApplyPaymentStatus(decimal.Zero)

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		if len(items) > 0 {
			for i := range items {
				items[i].SaleID = sale.ID
			}
			if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// buildItems validates the input lines and turns them into sale products,
// snapshotting the product name and image. Lines are validated in order and
// the first invalid one aborts the whole request.
func (s *SaleService) buildItems(ctx context.Context, userID uuid.UUID, inputs []SaleItemInput) ([]entity.SaleProduct, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	productIDs := make([]uuid.UUID, len(inputs))
	for i, in := range inputs {
		productIDs[i] = in.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.SaleProduct, 0, len(inputs))
	for _, in := range inputs {
		if err := validateItem(&in); err != nil {
			return nil, err
		}
		product, exists := productMap[in.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", in.ProductID))
		}

		items = append(items, entity.SaleProduct{
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			Price:       in.Price,
			IsFree:      in.IsFree,
			ProductName: product.Name,
			Image:       product.Image,
			CreatedBy:   userID,
		})
	}
	return items, nil
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

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// UpdateSale updates a sale's header fields and, when Items is non-nil,
// replaces its line items by diff: lines with an id are updated in place,
// lines without an id are created, and existing lines absent from the input
// are deleted. Totals and payment status are recalculated once at the end.
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, input *UpdateSaleInput) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Status == enum.SaleStatusCancelled {
			return apperror.NewBadRequestError("Cannot modify a cancelled sale")
		}

		if input.ClearDiscount {
			sale.DiscountType = nil
			sale.Discount = decimal.Zero
		} else {
			if input.DiscountType != nil {
				sale.DiscountType = input.DiscountType
			}
			if input.Discount != nil {
				sale.Discount = *input.Discount
			}
			if err := validateDiscount(sale.DiscountType, sale.Discount); err != nil {
				return err
			}
		}

		if input.TableID != nil {
			table, err := s.tableRepo.GetByID(ctx, *input.TableID)
			if err != nil {
				return err
			}
			if table == nil {
				return apperror.NewNotFoundError("Table")
			}
			sale.TableID = input.TableID
		}

		if input.SubTotal != nil {
			if input.SubTotal.IsNegative() {
				return apperror.NewFieldError("sub_total", "must not be negative")
			}
			sale.SubTotal = *input.SubTotal
		}

		if input.SaleDate != nil {
			sale.SaleDate = *input.SaleDate
		}

		// A supplied item list is authoritative and its recalculation wins
		// over any caller-supplied sub_total
		if input.Items != nil {
			if err := s.replaceItems(ctx, sale, input.UserID, input.Items); err != nil {
				return err
			}
			return s.reconcile(ctx, sale)
		}

		return s.reapplyTotals(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// replaceItems applies a replace-by-diff over the sale's line items
func (s *SaleService) replaceItems(ctx context.Context, sale *entity.Sale, userID uuid.UUID, inputs []SaleItemInput) error {
	keep := make([]uuid.UUID, 0, len(inputs))
	newLines := make([]SaleItemInput, 0, len(inputs))

	for _, in := range inputs {
		if err := validateItem(&in); err != nil {
			return err
		}
		if in.ID != nil {
			keep = append(keep, *in.ID)
		} else {
			newLines = append(newLines, in)
		}
	}

	if err := s.itemRepo.DeleteBySaleIDExcept(ctx, sale.ID, keep); err != nil {
		return err
	}

	for _, in := range inputs {
		if in.ID == nil {
			continue
		}
		existing, err := s.itemRepo.GetByID(ctx, *in.ID)
		if err != nil {
			return err
		}
		if existing == nil || existing.SaleID != sale.ID {
			return apperror.NewNotFoundError(fmt.Sprintf("Sale product %s", *in.ID))
		}
		existing.Quantity = in.Quantity
		existing.Price = in.Price
		existing.IsFree = in.IsFree
		if err := s.itemRepo.Update(ctx, existing); err != nil {
			return err
		}
	}

	if len(newLines) > 0 {
		items, err := s.buildItems(ctx, userID, newLines)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSale deletes a sale along with its line items and payments
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		if err := s.itemRepo.DeleteBySaleID(ctx, id); err != nil {
			return err
		}
		if err := s.paymentRepo.DeleteBySaleID(ctx, id); err != nil {
			return err
		}
		return s.saleRepo.Delete(ctx, id)
	})
}

// CancelSale marks a sale as cancelled. Cancellation is terminal: the sale
// keeps its totals and payments but no longer accepts mutations, and later
// recalculations never flip it back to pending or completed.
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Status == enum.SaleStatusCancelled {
			return apperror.NewBadRequestError("Sale is already cancelled")
		}

		sale.Status = enum.SaleStatusCancelled
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// RecalculateSale re-derives the sale's totals and payment status from its
// current line items and payments. Exposed for repair jobs; normal mutations
// already reconcile as part of their transaction.
func (s *SaleService) RecalculateSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		return s.reconcile(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// reapplyTotals recomputes the grand total and payment status from the
// sale's current sub_total (the merged view of stored and supplied values)
// without re-deriving sub_total from line items. Must be called inside a
// transaction holding the sale's row lock.
func (s *SaleService) reapplyTotals(ctx context.Context, sale *entity.Sale) error {
	payments, err := s.paymentRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return err
	}

	sale.ApplyTotals(sale.SubTotal)
	sale.ApplyPaymentStatus(entity.TotalPaidOf(payments))
	return s.saleRepo.Update(ctx, sale)
}

// reconcile recomputes the locked sale's derived fields and persists them.
// Must be called inside a transaction holding the sale's row lock.
func (s *SaleService) reconcile(ctx context.Context, sale *entity.Sale) error {
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

func validateDiscount(discountType *enum.DiscountType, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return apperror.NewFieldError("discount", "must not be negative")
	}
	if discountType == nil {
		return nil
	}
	if !discountType.IsValid() {
		return apperror.NewFieldError("discount_type", "must be fixed or percentage")
	}
	if *discountType == enum.DiscountTypePercentage && discount.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.NewFieldError("discount", "percentage discount cannot exceed 100")
	}
	return nil
}

func validateItem(in *SaleItemInput) error {
	if in.Quantity < 1 {
		return apperror.NewFieldError("quantity", "must be at least 1")
	}
	if in.Price.IsNegative() {
		return apperror.NewFieldError("price", "must not be negative")
	}
	return nil
}
