package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetByIDForUpdate fetches the sale with a row-level lock. Must be called
	// inside a transaction; recalculation reads and writes happen under it.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	TableID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SaleProductRepository defines the interface for sale line-item operations
type SaleProductRepository interface {
	Create(ctx context.Context, item *entity.SaleProduct) error
	CreateBatch(ctx context.Context, items []entity.SaleProduct) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleProduct, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleProduct, error)
	Update(ctx context.Context, item *entity.SaleProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
	// DeleteBySaleIDExcept removes every line item of the sale whose id is not
	// in keep. Used by replace-by-diff updates where the input list is
	// authoritative.
	DeleteBySaleIDExcept(ctx context.Context, saleID uuid.UUID, keep []uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleProduct, int64, error)
}

// SalePaymentRepository defines the interface for sale payment operations
type SalePaymentRepository interface {
	Create(ctx context.Context, payment *entity.SalePayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalePayment, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SalePayment, error)
	Update(ctx context.Context, payment *entity.SalePayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.SalePayment, int64, error)
}
