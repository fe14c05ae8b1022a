package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/request"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/response"
)

// PaymentMethodHandler handles payment method HTTP requests
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// Create handles POST /payment-methods
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method, err := h.methodService.CreatePaymentMethod(c.Request.Context(), req.PaymentMethodName, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment method created successfully", method)
}

// Get handles GET /payment-methods/:id
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	method, err := h.methodService.GetPaymentMethod(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method retrieved successfully", method)
}

// List handles GET /payment-methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	params := PaginationFromQuery(c)

	result, err := h.methodService.ListPaymentMethods(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payment methods retrieved successfully", result)
}

// Update handles PUT /payment-methods/:id
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	var req request.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method, err := h.methodService.UpdatePaymentMethod(c.Request.Context(), id, req.PaymentMethodName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method updated successfully", method)
}

// Delete handles DELETE /payment-methods/:id
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	if err := h.methodService.DeletePaymentMethod(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method deleted successfully", nil)
}
