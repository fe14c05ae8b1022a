package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest represents one line item on a sale request. ID is only
// meaningful on updates: lines with an id are updated in place, lines
// without one are created.
type SaleItemRequest struct {
	ID        *string         `json:"id" binding:"omitempty,uuid"`
	ProductID string          `json:"product_id" binding:"required,uuid"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	IsFree    bool            `json:"is_free"`
}

// CreateSaleRequest represents a create sale request. SubTotal and
// GrandTotal only apply to sales created without products; a products list
// always recalculates both from the persisted lines.
type CreateSaleRequest struct {
	TableID      *string           `json:"table_id" binding:"omitempty,uuid"`
	SubTotal     *decimal.Decimal  `json:"sub_total"`
	GrandTotal   *decimal.Decimal  `json:"grand_total"`
	DiscountType *string           `json:"discount_type" binding:"omitempty,oneof=fixed percentage"`
	Discount     *decimal.Decimal  `json:"discount"`
	SaleDate     *time.Time        `json:"sale_date"`
	Products     []SaleItemRequest `json:"products" binding:"omitempty,dive"`
}

// UpdateSaleRequest represents an update sale request. A non-nil Products
// list is authoritative: existing lines missing from it are deleted.
type UpdateSaleRequest struct {
	TableID       *string           `json:"table_id" binding:"omitempty,uuid"`
	SubTotal      *decimal.Decimal  `json:"sub_total"`
	DiscountType  *string           `json:"discount_type" binding:"omitempty,oneof=fixed percentage"`
	ClearDiscount bool              `json:"clear_discount"`
	Discount      *decimal.Decimal  `json:"discount"`
	SaleDate      *time.Time        `json:"sale_date"`
	Products      []SaleItemRequest `json:"products" binding:"omitempty,dive"`
}

// AddSaleItemsRequest represents a bulk add line items request
type AddSaleItemsRequest struct {
	Products []SaleItemRequest `json:"products" binding:"required,min=1,dive"`
}

// UpdateSaleItemRequest represents an update line item request
type UpdateSaleItemRequest struct {
	Quantity *int             `json:"quantity" binding:"omitempty,min=1"`
	Price    *decimal.Decimal `json:"price"`
	IsFree   *bool            `json:"is_free"`
}

// AddSalePaymentRequest represents an add payment request
type AddSalePaymentRequest struct {
	PaymentMethodID string           `json:"payment_method_id" binding:"required,uuid"`
	PaymentAmount   decimal.Decimal  `json:"payment_amount" binding:"required"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate"`
}

// UpdateSalePaymentRequest represents an update payment request
type UpdateSalePaymentRequest struct {
	PaymentMethodID *string          `json:"payment_method_id" binding:"omitempty,uuid"`
	PaymentAmount   *decimal.Decimal `json:"payment_amount"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate"`
}
