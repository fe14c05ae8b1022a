package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/boiiloat/pos-api/internal/domain/entity"
	"github.com/boiiloat/pos-api/internal/domain/enum"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discountType(t enum.DiscountType) *enum.DiscountType {
	return &t
}

func TestSale_GrandTotalFor(t *testing.T) {
	tests := []struct {
		name         string
		subTotal     string
		discountType *enum.DiscountType
		discount     string
		want         string
	}{
		{
			name:     "no discount",
			subTotal: "100.00",
			discount: "0",
			want:     "100",
		},
		{
			name:         "percentage discount",
			subTotal:     "100.00",
			discountType: discountType(enum.DiscountTypePercentage),
			discount:     "10",
			want:         "90",
		},
		{
			name:         "fixed discount",
			subTotal:     "100.00",
			discountType: discountType(enum.DiscountTypeFixed),
			discount:     "25.50",
			want:         "74.5",
		},
		{
			name:         "fixed discount larger than subtotal clamps to zero",
			subTotal:     "50.00",
			discountType: discountType(enum.DiscountTypeFixed),
			discount:     "80.00",
			want:         "0",
		},
		{
			name:         "full percentage discount",
			subTotal:     "42.00",
			discountType: discountType(enum.DiscountTypePercentage),
			discount:     "100",
			want:         "0",
		},
		{
			name:     "discount value without type is ignored",
			subTotal: "100.00",
			discount: "30.00",
			want:     "100",
		},
		{
			name:         "percentage of zero subtotal",
			subTotal:     "0",
			discountType: discountType(enum.DiscountTypePercentage),
			discount:     "50",
			want:         "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := &entity.Sale{
				DiscountType: tt.discountType,
				Discount:     dec(tt.discount),
			}
			got := sale.GrandTotalFor(dec(tt.subTotal))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSale_ApplyTotals(t *testing.T) {
	sale := &entity.Sale{
		DiscountType: discountType(enum.DiscountTypePercentage),
		Discount:     dec("10"),
	}

	sale.ApplyTotals(dec("200.00"))

	assert.True(t, sale.SubTotal.Equal(dec("200.00")))
	assert.True(t, sale.GrandTotal.Equal(dec("180")))
}

func TestSale_ApplyPaymentStatus(t *testing.T) {
	t.Run("payments below grand total keep the sale pending", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusPending}

		sale.ApplyPaymentStatus(dec("40.00"))

		assert.False(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, sale.Status)
	})

	t.Run("payments covering grand total complete the sale", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusPending}

		sale.ApplyPaymentStatus(dec("90.00"))

		assert.True(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	})

	t.Run("overpayment also completes the sale", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusPending}

		sale.ApplyPaymentStatus(dec("100.00"))

		assert.True(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	})

	t.Run("removing payments flips a completed sale back to pending", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusCompleted, IsPaid: true}

		sale.ApplyPaymentStatus(dec("40.00"))

		assert.False(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusPending, sale.Status)
	})

	t.Run("zero grand total is paid with no payments", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: decimal.Zero, Status: enum.SaleStatusPending}

		sale.ApplyPaymentStatus(decimal.Zero)

		assert.True(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	})

	t.Run("cancelled status is terminal", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusCancelled}

		sale.ApplyPaymentStatus(dec("90.00"))

		assert.True(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusCancelled, sale.Status)
	})

	t.Run("idempotent when applied twice", func(t *testing.T) {
		sale := &entity.Sale{GrandTotal: dec("90.00"), Status: enum.SaleStatusPending}

		sale.ApplyPaymentStatus(dec("90.00"))
		sale.ApplyPaymentStatus(dec("90.00"))

		assert.True(t, sale.IsPaid)
		assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	})
}

func TestSubTotalOf(t *testing.T) {
	items := []entity.SaleProduct{
		{Quantity: 2, Price: dec("10.00")},
		{Quantity: 1, Price: dec("5.50")},
		{Quantity: 3, Price: dec("2.00"), IsFree: true},
	}

	// Free lines still contribute to the subtotal
	assert.True(t, entity.SubTotalOf(items).Equal(dec("31.50")))
	assert.True(t, entity.SubTotalOf(nil).Equal(decimal.Zero))
}

func TestTotalPaidOf(t *testing.T) {
	payments := []entity.SalePayment{
		{PaymentAmount: dec("40.00"), ExchangeRate: dec("1")},
		{PaymentAmount: dec("50.00"), ExchangeRate: dec("4100.5")},
	}

	// Exchange rates are stored, not applied
	assert.True(t, entity.TotalPaidOf(payments).Equal(dec("90.00")))
	assert.True(t, entity.TotalPaidOf(nil).Equal(decimal.Zero))
}
