package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	domainRepo "github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return dbFor(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).
		Preload("Table").
		Preload("Products").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).First(&sale, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return dbFor(ctx, r.db).Save(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.Sale{})

	if params.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.TableID != nil {
		query = query.Where("table_id = ?", *params.TableID)
	}

	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Table").
		Preload("Products").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

type saleProductRepository struct {
	db *gorm.DB
}

// NewSaleProductRepository creates a new sale product repository
func NewSaleProductRepository(db *gorm.DB) domainRepo.SaleProductRepository {
	return &saleProductRepository{db: db}
}

func (r *saleProductRepository) Create(ctx context.Context, item *entity.SaleProduct) error {
	return dbFor(ctx, r.db).Create(item).Error
}

func (r *saleProductRepository) CreateBatch(ctx context.Context, items []entity.SaleProduct) error {
	return dbFor(ctx, r.db).Create(&items).Error
}

func (r *saleProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleProduct, error) {
	var item entity.SaleProduct
	err := dbFor(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *saleProductRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleProduct, error) {
	var items []entity.SaleProduct
	err := dbFor(ctx, r.db).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *saleProductRepository) Update(ctx context.Context, item *entity.SaleProduct) error {
	return dbFor(ctx, r.db).Save(item).Error
}

func (r *saleProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&entity.SaleProduct{}, "id = ?", id).Error
}

func (r *saleProductRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&entity.SaleProduct{}, "sale_id = ?", saleID).Error
}

func (r *saleProductRepository) DeleteBySaleIDExcept(ctx context.Context, saleID uuid.UUID, keep []uuid.UUID) error {
	query := dbFor(ctx, r.db).Where("sale_id = ?", saleID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&entity.SaleProduct{}).Error
}

func (r *saleProductRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleProduct, int64, error) {
	var items []entity.SaleProduct
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.SaleProduct{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Product").
		Order("created_at DESC").
		Find(&items).Error

	return items, total, err
}

type salePaymentRepository struct {
	db *gorm.DB
}

// NewSalePaymentRepository creates a new sale payment repository
func NewSalePaymentRepository(db *gorm.DB) domainRepo.SalePaymentRepository {
	return &salePaymentRepository{db: db}
}

func (r *salePaymentRepository) Create(ctx context.Context, payment *entity.SalePayment) error {
	return dbFor(ctx, r.db).Create(payment).Error
}

func (r *salePaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalePayment, error) {
	var payment entity.SalePayment
	err := dbFor(ctx, r.db).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *salePaymentRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SalePayment, error) {
	var payments []entity.SalePayment
	err := dbFor(ctx, r.db).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *salePaymentRepository) Update(ctx context.Context, payment *entity.SalePayment) error {
	return dbFor(ctx, r.db).Save(payment).Error
}

func (r *salePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&entity.SalePayment{}, "id = ?", id).Error
}

func (r *salePaymentRepository) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&entity.SalePayment{}, "sale_id = ?", saleID).Error
}

func (r *salePaymentRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.SalePayment, int64, error) {
	var payments []entity.SalePayment
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.SalePayment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("PaymentMethod").
		Order("created_at DESC").
		Find(&payments).Error

	return payments, total, err
}
