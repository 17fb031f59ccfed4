package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService       *service.SaleService
	settlementService *service.SettlementService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService, settlementService *service.SettlementService) *SaleHandler {
	return &SaleHandler{
		saleService:       saleService,
		settlementService: settlementService,
	}
}

// Finalize handles ringing up a cart into a permanent sale
func (h *SaleHandler) Finalize(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	var req request.FinalizeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.FinalizeSaleInput{
		ShopID:             *shopID,
		Items:              toCartItems(req.Items),
		DiscountAmount:     req.DiscountAmount,
		TaxRatePercent:     req.TaxRatePercent,
		CustomerName:       req.CustomerName,
		CustomerMobile:     req.CustomerMobile,
		PaidAmount:         req.PaidAmount,
		PaymentMethod:      enum.PaymentMethodCash,
		ExpectedGrandTotal: req.ExpectedGrandTotal,
	}
	if req.PaymentMethod != nil {
		input.PaymentMethod = *req.PaymentMethod
	}

	sale, err := h.saleService.FinalizeSale(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale finalized successfully", sale)
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *shopID)
		return
	}

	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:          filter.Search,
		CustomerMobile:  filter.CustomerMobile,
		OutstandingOnly: filter.OutstandingOnly,
		SortBy:          filter.SortBy,
		SortOrder:       filter.SortOrder,
	}

	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), *shopID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// listWithCursor handles listing sales with cursor-based pagination
func (h *SaleHandler) listWithCursor(c *gin.Context, shopID uuid.UUID) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &repository.SaleCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:          filter.Search,
		CustomerMobile:  filter.CustomerMobile,
		OutstandingOnly: filter.OutstandingOnly,
	}

	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}

	result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), shopID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale with line items and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
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

// ListPayments handles listing a sale's payment trail
func (h *SaleHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	payments, err := h.saleService.ListPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// GetOutstanding handles listing sales that still carry a balance
func (h *SaleHandler) GetOutstanding(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	result, err := h.saleService.GetOutstandingSales(c.Request.Context(), *shopID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Outstanding sales retrieved successfully", result)
}

// Settle handles recording a payment against one specific sale
func (h *SaleHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method := enum.PaymentMethodCash
	if req.PaymentMethod != nil {
		method = *req.PaymentMethod
	}

	sale, err := h.settlementService.SettleSale(c.Request.Context(), id, req.Amount, method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", sale)
}

// toCartItems maps request lines to service cart items
func toCartItems(items []request.SaleItemRequest) []service.CartItem {
	cart := make([]service.CartItem, 0, len(items))
	for _, item := range items {
		cart = append(cart, service.CartItem{
			ProductNo:   item.ProductNo,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			IsReturn:    item.IsReturn,
			TaxCode:     item.TaxCode,
		})
	}
	return cart
}
