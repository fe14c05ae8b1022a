package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/request"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/response"
)

// SaleProductHandler handles sale line-item HTTP requests
type SaleProductHandler struct {
	itemService *service.SaleProductService
}

// NewSaleProductHandler creates a new sale product handler
func NewSaleProductHandler(itemService *service.SaleProductService) *SaleProductHandler {
	return &SaleProductHandler{itemService: itemService}
}

// Add handles POST /sales/:id/products
func (h *SaleProductHandler) Add(c *gin.Context) {
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

	var req request.AddSaleItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	items, ok := parseItems(c, req.Products)
	if !ok {
		return
	}

	sale, err := h.itemService.AddItems(c.Request.Context(), saleID, *userID, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale products added successfully", sale)
}

// List handles GET /sales/:id/products
func (h *SaleProductHandler) List(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	items, err := h.itemService.ListItems(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale products retrieved successfully", items)
}

// ListAll handles GET /sale-products
func (h *SaleProductHandler) ListAll(c *gin.Context) {
	params := PaginationFromQuery(c)

	result, err := h.itemService.ListAll(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sale products retrieved successfully", result)
}

// Get handles GET /sale-products/:id
func (h *SaleProductHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale product ID")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale product retrieved successfully", item)
}

// Update handles PUT /sales/:id/products/:productId
func (h *SaleProductHandler) Update(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	itemID, ok := ParseIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid sale product ID")
		return
	}

	var req request.UpdateSaleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.itemService.UpdateItem(c.Request.Context(), saleID, itemID, &service.UpdateItemInput{
		Quantity: req.Quantity,
		Price:    req.Price,
		IsFree:   req.IsFree,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale product updated successfully", sale)
}

// Remove handles DELETE /sales/:id/products/:productId
func (h *SaleProductHandler) Remove(c *gin.Context) {
	saleID, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	itemID, ok := ParseIDParam(c, "productId")
	if !ok {
		response.BadRequest(c, "Invalid sale product ID")
		return
	}

	sale, err := h.itemService.RemoveItem(c.Request.Context(), saleID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale product removed successfully", sale)
}
