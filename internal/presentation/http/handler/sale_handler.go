package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/domain/enum"
	"github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/request"
	"github.com/boiiloat/pos-api/internal/presentation/http/dto/response"
)

// SaleHandler handles sale HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateSaleInput{
		UserID:     *userID,
		GrandTotal: req.GrandTotal,
		SaleDate:   req.SaleDate,
	}
	if req.SubTotal != nil {
		input.SubTotal = *req.SubTotal
	}

	if req.TableID != nil {
		tableID, err := uuid.Parse(*req.TableID)
		if err != nil {
			response.BadRequest(c, "Invalid table ID")
			return
		}
		input.TableID = &tableID
	}

	if req.DiscountType != nil {
		discountType := enum.DiscountType(*req.DiscountType)
		input.DiscountType = &discountType
	}
	if req.Discount != nil {
		input.Discount = *req.Discount
	} else {
		input.Discount = decimal.Zero
	}

	items, ok := parseItems(c, req.Products)
	if !ok {
		return
	}
	input.Items = items

	sale, err := h.saleService.CreateSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	params := &repository.SaleFilterParams{
		Pagination: PaginationFromQuery(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.SaleStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		params.Status = &status
	}

	if tableIDStr := c.Query("table_id"); tableIDStr != "" {
		if tableID, err := uuid.Parse(tableIDStr); err == nil {
			params.TableID = &tableID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Update handles PUT /sales/:id
func (h *SaleHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateSaleInput{
		UserID:        *userID,
		SubTotal:      req.SubTotal,
		ClearDiscount: req.ClearDiscount,
		Discount:      req.Discount,
		SaleDate:      req.SaleDate,
	}

	if req.TableID != nil {
		tableID, err := uuid.Parse(*req.TableID)
		if err != nil {
			response.BadRequest(c, "Invalid table ID")
			return
		}
		input.TableID = &tableID
	}

	if req.DiscountType != nil {
		discountType := enum.DiscountType(*req.DiscountType)
		input.DiscountType = &discountType
	}

	if req.Products != nil {
		items, ok := parseItems(c, req.Products)
		if !ok {
			return
		}
		input.Items = items
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Delete handles DELETE /sales/:id
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", sale)
}

// Recalculate handles POST /sales/:id/recalculate
func (h *SaleHandler) Recalculate(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.RecalculateSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale recalculated successfully", sale)
}

// parseItems converts item requests into service inputs, writing an error
// response and returning false when an ID fails to parse
func parseItems(c *gin.Context, reqs []request.SaleItemRequest) ([]service.SaleItemInput, bool) {
	items := make([]service.SaleItemInput, 0, len(reqs))
	for _, r := range reqs {
		productID, err := uuid.Parse(r.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return nil, false
		}

		item := service.SaleItemInput{
			ProductID: productID,
			Quantity:  r.Quantity,
			Price:     r.Price,
			IsFree:    r.IsFree,
		}

		if r.ID != nil {
			itemID, err := uuid.Parse(*r.ID)
			if err != nil {
				response.BadRequest(c, "Invalid sale product ID")
				return nil, false
			}
			item.ID = &itemID
		}

		items = append(items, item)
	}
	return items, true
}
