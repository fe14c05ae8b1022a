package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/request"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/response"
)

// SalePaymentHandler handles sale payment HTTP requests
type SalePaymentHandler struct {
	paymentService *service.SalePaymentService
}

// NewSalePaymentHandler creates a new sale payment handler
func NewSalePaymentHandler(paymentService *service.SalePaymentService) *SalePaymentHandler {
	return &SalePaymentHandler{paymentService: paymentService}
}

// Add handles POST /sales/:id/payments
func (h *SalePaymentHandler) Add(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.AddSalePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	methodID, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		response.BadRequest(c, "Invalid payment method ID")
		return
	}

	sale, err := h.paymentService.AddPayment(c.Request.Context(), saleID, &service.AddPaymentInput{
		UserID:          *userID,
		PaymentMethodID: methodID,
		PaymentAmount:   req.PaymentAmount,
		ExchangeRate:    req.ExchangeRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", sale)
}

// List handles GET /sales/:id/payments
func (h *SalePaymentHandler) List(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale payments retrieved successfully", payments)
}

// ListAll handles GET /sale-payments
func (h *SalePaymentHandler) ListAll(c *gin.Context) {
	params := PaginationFromQuery(c)

	result, err := h.paymentService.ListAll(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sale payments retrieved successfully", result)
}

// Get handles GET /sale-payments/:id
func (h *SalePaymentHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale payment retrieved successfully", payment)
}

// Update handles PUT /sales/:id/payments/:paymentId
func (h *SalePaymentHandler) Update(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	paymentID, ok := ParseIDParam(c, "paymentId")
	if !ok {
		response.BadRequest(c, "Invalid sale payment ID")
		return
	}

	var req request.UpdateSalePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdatePaymentInput{
		PaymentAmount: req.PaymentAmount,
		ExchangeRate:  req.ExchangeRate,
	}
	if req.PaymentMethodID != nil {
		methodID, err := uuid.Parse(*req.PaymentMethodID)
		if err != nil {
			response.BadRequest(c, "Invalid payment method ID")
			return
		}
		input.PaymentMethodID = &methodID
	}

	sale, err := h.paymentService.UpdatePayment(c.Request.Context(), saleID, paymentID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", sale)
}

// Remove handles DELETE /sales/:id/payments/:paymentId
func (h *SalePaymentHandler) Remove(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	paymentID, ok := ParseIDParam(c, "paymentId")
	if !ok {
		response.BadRequest(c, "Invalid sale payment ID")
		return
	}

	sale, err := h.paymentService.RemovePayment(c.Request.Context(), saleID, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment removed successfully", sale)
}
