package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/pkg/pagination"
)

// --- in-memory fakes -------------------------------------------------------

type fakeStore struct {
	sales    map[uuid.UUID]*entity.Sale
	items    map[uuid.UUID]*entity.SaleProduct
	payments map[uuid.UUID]*entity.SalePayment
	products map[uuid.UUID]*entity.Product
	tables   map[uuid.UUID]*entity.Table
	methods  map[uuid.UUID]*entity.PaymentMethod
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sales:    make(map[uuid.UUID]*entity.Sale),
		items:    make(map[uuid.UUID]*entity.SaleProduct),
		payments: make(map[uuid.UUID]*entity.SalePayment),
		products: make(map[uuid.UUID]*entity.Product),
		tables:   make(map[uuid.UUID]*entity.Table),
		methods:  make(map[uuid.UUID]*entity.PaymentMethod),
	}
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSaleRepo struct{ s *fakeStore }

func (r *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	// Mirror the GORM hook that assigns the id and invoice number
	if err := sale.BeforeCreate(nil); err != nil {
		return err
	}
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *fakeSaleRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := r.GetByID(ctx, id)
	if sale == nil || err != nil {
		return sale, err
	}
	for _, item := range r.s.items {
		if item.SaleID == id {
			sale.Products = append(sale.Products, *item)
		}
	}
	for _, payment := range r.s.payments {
		if payment.SaleID == id {
			sale.Payments = append(sale.Payments, *payment)
		}
	}
	return sale, nil
}

func (r *fakeSaleRepo) GetByInvoiceNumber(_ context.Context, invoiceNumber string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.InvoiceNumber == invoiceNumber {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) Update(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.sales, id)
	return nil
}

func (r *fakeSaleRepo) List(_ context.Context, _ *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	for _, sale := range r.s.sales {
		sales = append(sales, *sale)
	}
	return sales, int64(len(sales)), nil
}

type fakeSaleProductRepo struct{ s *fakeStore }

func (r *fakeSaleProductRepo) Create(_ context.Context, item *entity.SaleProduct) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeSaleProductRepo) CreateBatch(ctx context.Context, items []entity.SaleProduct) error {
	for i := range items {
		if err := r.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSaleProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SaleProduct, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeSaleProductRepo) GetBySaleID(_ context.Context, saleID uuid.UUID) ([]entity.SaleProduct, error) {
	var items []entity.SaleProduct
	for _, item := range r.s.items {
		if item.SaleID == saleID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (r *fakeSaleProductRepo) Update(_ context.Context, item *entity.SaleProduct) error {
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *fakeSaleProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.items, id)
	return nil
}

func (r *fakeSaleProductRepo) DeleteBySaleID(_ context.Context, saleID uuid.UUID) error {
	for id, item := range r.s.items {
		if item.SaleID == saleID {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r *fakeSaleProductRepo) DeleteBySaleIDExcept(_ context.Context, saleID uuid.UUID, keep []uuid.UUID) error {
	keepSet := make(map[uuid.UUID]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}
	for id, item := range r.s.items {
		if item.SaleID == saleID && !keepSet[id] {
			delete(r.s.items, id)
		}
	}
	return nil
}

func (r *fakeSaleProductRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.SaleProduct, int64, error) {
	var items []entity.SaleProduct
	for _, item := range r.s.items {
		items = append(items, *item)
	}
	return items, int64(len(items)), nil
}

type fakeSalePaymentRepo struct{ s *fakeStore }

func (r *fakeSalePaymentRepo) Create(_ context.Context, payment *entity.SalePayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	cp := *payment
	r.s.payments[payment.ID] = &cp
	return nil
}

func (r *fakeSalePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.SalePayment, error) {
	payment, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *payment
	return &cp, nil
}

func (r *fakeSalePaymentRepo) GetBySaleID(_ context.Context, saleID uuid.UUID) ([]entity.SalePayment, error) {
	var payments []entity.SalePayment
	for _, payment := range r.s.payments {
		if payment.SaleID == saleID {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

func (r *fakeSalePaymentRepo) Update(_ context.Context, payment *entity.SalePayment) error {
	cp := *payment
	r.s.payments[payment.ID] = &cp
	return nil
}

func (r *fakeSalePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.payments, id)
	return nil
}

func (r *fakeSalePaymentRepo) DeleteBySaleID(_ context.Context, saleID uuid.UUID) error {
	for id, payment := range r.s.payments {
		if payment.SaleID == saleID {
			delete(r.s.payments, id)
		}
	}
	return nil
}

func (r *fakeSalePaymentRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.SalePayment, int64, error) {
	var payments []entity.SalePayment
	for _, payment := range r.s.payments {
		payments = append(payments, *payment)
	}
	return payments, int64(len(payments)), nil
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	for _, id := range ids {
		if product, ok := r.s.products[id]; ok {
			products = append(products, *product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string, _ *uuid.UUID) ([]entity.Product, int64, error) {
	var products []entity.Product
	for _, product := range r.s.products {
		products = append(products, *product)
	}
	return products, int64(len(products)), nil
}

type fakeTableRepo struct{ s *fakeStore }

func (r *fakeTableRepo) Create(_ context.Context, table *entity.Table) error {
	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	cp := *table
	r.s.tables[table.ID] = &cp
	return nil
}

func (r *fakeTableRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Table, error) {
	table, ok := r.s.tables[id]
	if !ok {
		return nil, nil
	}
	cp := *table
	return &cp, nil
}

func (r *fakeTableRepo) Update(_ context.Context, table *entity.Table) error {
	cp := *table
	r.s.tables[table.ID] = &cp
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.tables, id)
	return nil
}

func (r *fakeTableRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Table, int64, error) {
	var tables []entity.Table
	for _, table := range r.s.tables {
		tables = append(tables, *table)
	}
	return tables, int64(len(tables)), nil
}

type fakePaymentMethodRepo struct{ s *fakeStore }

func (r *fakePaymentMethodRepo) Create(_ context.Context, method *entity.PaymentMethod) error {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	cp := *method
	r.s.methods[method.ID] = &cp
	return nil
}

func (r *fakePaymentMethodRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	method, ok := r.s.methods[id]
	if !ok {
		return nil, nil
	}
	cp := *method
	return &cp, nil
}

func (r *fakePaymentMethodRepo) Update(_ context.Context, method *entity.PaymentMethod) error {
	cp := *method
	r.s.methods[method.ID] = &cp
	return nil
}

func (r *fakePaymentMethodRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.s.methods, id)
	return nil
}

func (r *fakePaymentMethodRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.PaymentMethod, int64, error) {
	var methods []entity.PaymentMethod
	for _, method := range r.s.methods {
		methods = append(methods, *method)
	}
	return methods, int64(len(methods)), nil
}

// --- fixture ---------------------------------------------------------------

type fixture struct {
	store          *fakeStore
	saleService    *service.SaleService
	itemService    *service.SaleProductService
	paymentService *service.SalePaymentService
	userID         uuid.UUID
}

func newFixture() *fixture {
	store := newFakeStore()
	saleRepo := &fakeSaleRepo{s: store}
	itemRepo := &fakeSaleProductRepo{s: store}
	paymentRepo := &fakeSalePaymentRepo{s: store}
	productRepo := &fakeProductRepo{s: store}
	tableRepo := &fakeTableRepo{s: store}
	methodRepo := &fakePaymentMethodRepo{s: store}
	tx := fakeTxManager{}

	return &fixture{
		store:          store,
		saleService:    service.NewSaleService(saleRepo, itemRepo, paymentRepo, productRepo, tableRepo, tx),
		itemService:    service.NewSaleProductService(saleRepo, itemRepo, paymentRepo, productRepo, tx),
		paymentService: service.NewSalePaymentService(saleRepo, itemRepo, paymentRepo, methodRepo, tx),
		userID:         uuid.New(),
	}
}

func (f *fixture) addProduct(t *testing.T, name, price string) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	f.store.products[product.ID] = product
	return product
}

func (f *fixture) addMethod(t *testing.T, name string) *entity.PaymentMethod {
	t.Helper()
	method := &entity.PaymentMethod{
		ID:                uuid.New(),
		PaymentMethodName: name,
	}
	f.store.methods[method.ID] = method
	return method
}

func pct() *enum.DiscountType {
	dt := enum.DiscountTypePercentage
	return &dt
}

// --- tests -----------------------------------------------------------------

func TestSaleService_CreateSale(t *testing.T) {
	t.Run("computes totals from initial items", func(t *testing.T) {
		f := newFixture()
		coffee := f.addProduct(t, "Coffee", "2.50")
		cake := f.addProduct(t, "Cake", "4.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.userID,
			DiscountType: pct(),
			Discount:     decimal.RequireFromString("10"),
			Items: []service.SaleItemInput{
				{ProductID: coffee.ID, Quantity: 2, Price: decimal.RequireFromString("2.50")},
				{ProductID: cake.ID, Quantity: 1, Price: decimal.RequireFromString("4.00")},
			},
		})
		require.NoError(t, err)

		assert.True(t, sale.SubTotal.Equal(decimal.RequireFromString("9.00")), "sub_total = %s", sale.SubTotal)
		assert.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("8.10")), "grand_total = %s", sale.GrandTotal)
		assert.False(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, sale.Status)
		assert.Len(t, sale.Products, 2)
		assert.NotEmpty(t, sale.InvoiceNumber)
	})

	t.Run("snapshots product name onto the line", func(t *testing.T) {
		f := newFixture()
		coffee := f.addProduct(t, "Coffee", "2.50")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: coffee.ID, Quantity: 1, Price: decimal.RequireFromString("2.50")},
			},
		})
		require.NoError(t, err)
		require.Len(t, sale.Products, 1)
		assert.Equal(t, "Coffee", sale.Products[0].ProductName)
	})

	t.Run("empty sale has zero totals and is unpaid-complete on payment check", func(t *testing.T) {
		f := newFixture()

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
		})
		require.NoError(t, err)

		assert.True(t, sale.SubTotal.IsZero())
		assert.True(t, sale.GrandTotal.IsZero())
		assert.True(t, sale.IsPaid, "zero grand total counts as paid")
	})

	t.Run("honors caller totals when no line items exist", func(t *testing.T) {
		f := newFixture()
		fixed := enum.DiscountTypeFixed

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.userID,
			SubTotal:     decimal.RequireFromString("100.00"),
			DiscountType: &fixed,
			Discount:     decimal.RequireFromString("30.00"),
		})
		require.NoError(t, err)

		assert.True(t, sale.SubTotal.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("70.00")), "grand_total = %s", sale.GrandTotal)
		assert.False(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, sale.Status)
	})

	t.Run("caller-supplied grand total overrides the formula", func(t *testing.T) {
		f := newFixture()
		grandTotal := decimal.RequireFromString("95.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:     f.userID,
			SubTotal:   decimal.RequireFromString("100.00"),
			GrandTotal: &grandTotal,
		})
		require.NoError(t, err)

		assert.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("95.00")))
	})

	t.Run("line items override caller-supplied totals", func(t *testing.T) {
		f := newFixture()
		coffee := f.addProduct(t, "Coffee", "2.50")
		grandTotal := decimal.RequireFromString("999.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:     f.userID,
			SubTotal:   decimal.RequireFromString("999.00"),
			GrandTotal: &grandTotal,
			Items: []service.SaleItemInput{
				{ProductID: coffee.ID, Quantity: 2, Price: decimal.RequireFromString("2.50")},
			},
		})
		require.NoError(t, err)

		assert.True(t, sale.SubTotal.Equal(decimal.RequireFromString("5.00")), "sub_total = %s", sale.SubTotal)
		assert.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("5.00")))
	})

	t.Run("rejects a negative sub_total", func(t *testing.T) {
		f := newFixture()

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:   f.userID,
			SubTotal: decimal.RequireFromString("-10.00"),
		})
		require.Error(t, err)
	})

	t.Run("rejects a negative discount even without a type", func(t *testing.T) {
		f := newFixture()

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:   f.userID,
			Discount: decimal.RequireFromString("-5.00"),
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		f := newFixture()

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("2.50")},
			},
		})
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		f := newFixture()
		coffee := f.addProduct(t, "Coffee", "2.50")

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: coffee.ID, Quantity: 0, Price: decimal.RequireFromString("2.50")},
			},
		})
		require.Error(t, err)
		assert.Empty(t, f.store.items, "no lines may be written when one is invalid")
	})

	t.Run("rejects percentage discount above 100", func(t *testing.T) {
		f := newFixture()

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.userID,
			DiscountType: pct(),
			Discount:     decimal.RequireFromString("120"),
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown table", func(t *testing.T) {
		f := newFixture()
		tableID := uuid.New()

		_, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:  f.userID,
			TableID: &tableID,
		})
		require.Error(t, err)
	})
}

func TestSaleService_UpdateSale(t *testing.T) {
	t.Run("replaces line items by diff", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "1.00")
		b := f.addProduct(t, "B", "2.00")
		c := f.addProduct(t, "C", "3.00")
		d := f.addProduct(t, "D", "4.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("1.00")},
				{ProductID: b.ID, Quantity: 1, Price: decimal.RequireFromString("2.00")},
				{ProductID: c.ID, Quantity: 1, Price: decimal.RequireFromString("3.00")},
			},
		})
		require.NoError(t, err)
		require.Len(t, sale.Products, 3)

		var lineA *entity.SaleProduct
		for i := range sale.Products {
			if sale.Products[i].ProductID == a.ID {
				lineA = &sale.Products[i]
			}
		}
		require.NotNil(t, lineA)

		// Keep A with a new quantity, drop B and C, add D
		updated, err := f.saleService.UpdateSale(context.Background(), sale.ID, &service.UpdateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ID: &lineA.ID, ProductID: a.ID, Quantity: 5, Price: decimal.RequireFromString("1.00")},
				{ProductID: d.ID, Quantity: 1, Price: decimal.RequireFromString("4.00")},
			},
		})
		require.NoError(t, err)

		require.Len(t, updated.Products, 2)
		byProduct := make(map[uuid.UUID]entity.SaleProduct)
		for _, item := range updated.Products {
			byProduct[item.ProductID] = item
		}
		assert.Equal(t, 5, byProduct[a.ID].Quantity)
		assert.Contains(t, byProduct, d.ID)
		assert.NotContains(t, byProduct, b.ID)
		assert.NotContains(t, byProduct, c.ID)

		// 5*1.00 + 1*4.00
		assert.True(t, updated.SubTotal.Equal(decimal.RequireFromString("9.00")), "sub_total = %s", updated.SubTotal)
	})

	t.Run("discount change recalculates against current items", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "50.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 2, Price: decimal.RequireFromString("50.00")},
			},
		})
		require.NoError(t, err)
		require.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("100.00")))

		fixed := enum.DiscountTypeFixed
		discount := decimal.RequireFromString("30.00")
		updated, err := f.saleService.UpdateSale(context.Background(), sale.ID, &service.UpdateSaleInput{
			UserID:       f.userID,
			DiscountType: &fixed,
			Discount:     &discount,
		})
		require.NoError(t, err)

		assert.True(t, updated.GrandTotal.Equal(decimal.RequireFromString("70.00")), "grand_total = %s", updated.GrandTotal)
	})

	t.Run("clearing the discount restores the full subtotal", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "50.00")

		fixed := enum.DiscountTypeFixed
		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.userID,
			DiscountType: &fixed,
			Discount:     decimal.RequireFromString("10.00"),
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("50.00")},
			},
		})
		require.NoError(t, err)
		require.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("40.00")))

		updated, err := f.saleService.UpdateSale(context.Background(), sale.ID, &service.UpdateSaleInput{
			UserID:        f.userID,
			ClearDiscount: true,
		})
		require.NoError(t, err)

		assert.True(t, updated.GrandTotal.Equal(decimal.RequireFromString("50.00")))
	})

	t.Run("supplied sub_total merges into the grand total recompute", func(t *testing.T) {
		f := newFixture()

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID:       f.userID,
			SubTotal:     decimal.RequireFromString("100.00"),
			DiscountType: pct(),
			Discount:     decimal.RequireFromString("10"),
		})
		require.NoError(t, err)
		require.True(t, sale.GrandTotal.Equal(decimal.RequireFromString("90.00")))

		subTotal := decimal.RequireFromString("50.00")
		updated, err := f.saleService.UpdateSale(context.Background(), sale.ID, &service.UpdateSaleInput{
			UserID:   f.userID,
			SubTotal: &subTotal,
		})
		require.NoError(t, err)

		// 50 with the stored 10% discount still applied
		assert.True(t, updated.SubTotal.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, updated.GrandTotal.Equal(decimal.RequireFromString("45.00")), "grand_total = %s", updated.GrandTotal)
	})

	t.Run("rejects updates on a cancelled sale", func(t *testing.T) {
		f := newFixture()

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)

		_, err = f.saleService.CancelSale(context.Background(), sale.ID)
		require.NoError(t, err)

		_, err = f.saleService.UpdateSale(context.Background(), sale.ID, &service.UpdateSaleInput{UserID: f.userID})
		require.Error(t, err)
	})
}

func TestSaleService_CancelSale(t *testing.T) {
	f := newFixture()

	sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
	require.NoError(t, err)

	cancelled, err := f.saleService.CancelSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SaleStatusCancelled, cancelled.Status)

	// Cancellation is terminal
	_, err = f.saleService.CancelSale(context.Background(), sale.ID)
	require.Error(t, err)
}

func TestSaleService_DeleteSale(t *testing.T) {
	f := newFixture()
	a := f.addProduct(t, "A", "1.00")
	method := f.addMethod(t, "Cash")

	sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
		UserID: f.userID,
		Items: []service.SaleItemInput{
			{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("1.00")},
		},
	})
	require.NoError(t, err)

	_, err = f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
		UserID:          f.userID,
		PaymentMethodID: method.ID,
		PaymentAmount:   decimal.RequireFromString("1.00"),
	})
	require.NoError(t, err)

	require.NoError(t, f.saleService.DeleteSale(context.Background(), sale.ID))

	assert.Empty(t, f.store.sales)
	assert.Empty(t, f.store.items, "line items must be deleted with the sale")
	assert.Empty(t, f.store.payments, "payments must be deleted with the sale")
}

func TestSaleProductService_Reconciliation(t *testing.T) {
	t.Run("adding items grows the totals once", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "2.00")
		b := f.addProduct(t, "B", "3.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)

		updated, err := f.itemService.AddItems(context.Background(), sale.ID, f.userID, []service.SaleItemInput{
			{ProductID: a.ID, Quantity: 2, Price: decimal.RequireFromString("2.00")},
			{ProductID: b.ID, Quantity: 1, Price: decimal.RequireFromString("3.00"), IsFree: true},
		})
		require.NoError(t, err)

		// Free items still count into the subtotal
		assert.True(t, updated.SubTotal.Equal(decimal.RequireFromString("7.00")), "sub_total = %s", updated.SubTotal)
	})

	t.Run("invalid line aborts the whole batch", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "2.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)

		_, err = f.itemService.AddItems(context.Background(), sale.ID, f.userID, []service.SaleItemInput{
			{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("2.00")},
			{ProductID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("3.00")},
		})
		require.Error(t, err)
		assert.Empty(t, f.store.items, "no lines may be written when any line is invalid")
	})

	t.Run("quantity update recalculates and can unpay a sale", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "10.00")
		method := f.addMethod(t, "Cash")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("10.00")},
			},
		})
		require.NoError(t, err)

		paid, err := f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("10.00"),
		})
		require.NoError(t, err)
		require.True(t, paid.IsPaid)
		require.Equal(t, enum.SaleStatusCompleted, paid.Status)

		quantity := 3
		updated, err := f.itemService.UpdateItem(context.Background(), sale.ID, paid.Products[0].ID, &service.UpdateItemInput{
			Quantity: &quantity,
		})
		require.NoError(t, err)

		assert.True(t, updated.GrandTotal.Equal(decimal.RequireFromString("30.00")))
		assert.False(t, updated.IsPaid, "existing payment no longer covers the new total")
		assert.Equal(t, enum.SaleStatusPending, updated.Status)
	})

	t.Run("removing the last item zeroes the totals", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "10.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("10.00")},
			},
		})
		require.NoError(t, err)

		updated, err := f.itemService.RemoveItem(context.Background(), sale.ID, sale.Products[0].ID)
		require.NoError(t, err)

		assert.True(t, updated.SubTotal.IsZero())
		assert.True(t, updated.GrandTotal.IsZero())
	})

	t.Run("rejects mutations on a cancelled sale", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "2.00")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)
		_, err = f.saleService.CancelSale(context.Background(), sale.ID)
		require.NoError(t, err)

		_, err = f.itemService.AddItems(context.Background(), sale.ID, f.userID, []service.SaleItemInput{
			{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("2.00")},
		})
		require.Error(t, err)
	})
}

func TestSalePaymentService_Reconciliation(t *testing.T) {
	t.Run("partial then covering payment completes the sale", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "90.00")
		method := f.addMethod(t, "Cash")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("90.00")},
			},
		})
		require.NoError(t, err)

		partial, err := f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("40.00"),
		})
		require.NoError(t, err)
		assert.False(t, partial.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, partial.Status)

		full, err := f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("50.00"),
		})
		require.NoError(t, err)
		assert.True(t, full.IsPaid)
		assert.Equal(t, enum.SaleStatusCompleted, full.Status)
	})

	t.Run("payment snapshots the method name", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "5.00")
		method := f.addMethod(t, "ABA QR")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("5.00")},
			},
		})
		require.NoError(t, err)

		paid, err := f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("5.00"),
		})
		require.NoError(t, err)
		require.Len(t, paid.Payments, 1)
		assert.Equal(t, "ABA QR", paid.Payments[0].PaymentMethodName)
		assert.True(t, paid.Payments[0].ExchangeRate.Equal(decimal.NewFromInt(1)), "exchange rate defaults to 1")
	})

	t.Run("removing a payment drops a completed sale back to pending", func(t *testing.T) {
		f := newFixture()
		a := f.addProduct(t, "A", "90.00")
		method := f.addMethod(t, "Cash")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{
			UserID: f.userID,
			Items: []service.SaleItemInput{
				{ProductID: a.ID, Quantity: 1, Price: decimal.RequireFromString("90.00")},
			},
		})
		require.NoError(t, err)

		paid, err := f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("90.00"),
		})
		require.NoError(t, err)
		require.True(t, paid.IsPaid)

		unpaid, err := f.paymentService.RemovePayment(context.Background(), sale.ID, paid.Payments[0].ID)
		require.NoError(t, err)

		assert.False(t, unpaid.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, unpaid.Status)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := newFixture()
		method := f.addMethod(t, "Cash")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)

		_, err = f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.Zero,
		})
		require.Error(t, err)
	})

	t.Run("rejects payments on a cancelled sale", func(t *testing.T) {
		f := newFixture()
		method := f.addMethod(t, "Cash")

		sale, err := f.saleService.CreateSale(context.Background(), &service.CreateSaleInput{UserID: f.userID})
		require.NoError(t, err)
		_, err = f.saleService.CancelSale(context.Background(), sale.ID)
		require.NoError(t, err)

		_, err = f.paymentService.AddPayment(context.Background(), sale.ID, &service.AddPaymentInput{
			UserID:          f.userID,
			PaymentMethodID: method.ID,
			PaymentAmount:   decimal.RequireFromString("1.00"),
		})
		require.Error(t, err)
	})
}
