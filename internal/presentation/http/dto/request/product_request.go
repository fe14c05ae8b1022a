package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a create product request
type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=255"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Image      *string         `json:"image"`
	CategoryID string          `json:"category_id" binding:"required,uuid"`
}

// UpdateProductRequest represents an update product request
type UpdateProductRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Image      *string          `json:"image"`
	CategoryID *string          `json:"category_id" binding:"omitempty,uuid"`
}

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// UpdateCategoryRequest represents an update category request
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// CreateTableRequest represents a create dining table request
type CreateTableRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// UpdateTableRequest represents an update dining table request
type UpdateTableRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// CreatePaymentMethodRequest represents a create payment method request
type CreatePaymentMethodRequest struct {
	PaymentMethodName string `json:"payment_method_name" binding:"required,min=1,max=255"`
}

// UpdatePaymentMethodRequest represents an update payment method request
type UpdatePaymentMethodRequest struct {
	PaymentMethodName string `json:"payment_method_name" binding:"required,min=1,max=255"`
}
