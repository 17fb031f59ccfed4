package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// ShopHandler handles shop-related HTTP requests
type ShopHandler struct {
	shopService *service.ShopService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopService *service.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// List handles listing shops
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.shopService.ListShops(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shops retrieved successfully", shops)
}

// Create handles creating a shop
func (h *ShopHandler) Create(c *gin.Context) {
	var req struct {
		Name           string          `json:"name" binding:"required,min=1,max=255"`
		Code           string          `json:"code" binding:"omitempty,max=20"`
		DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shop, err := h.shopService.CreateShop(c.Request.Context(), &service.CreateShopInput{
		Name:           req.Name,
		Code:           req.Code,
		DefaultTaxRate: req.DefaultTaxRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shop created successfully", shop)
}

// Get handles getting a single shop
func (h *ShopHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}

	shop, err := h.shopService.GetShop(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shop retrieved successfully", shop)
}

// Update handles updating a shop's name or default tax rate
func (h *ShopHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid shop ID")
		return
	}

	var req struct {
		Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
		DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shop, err := h.shopService.UpdateShop(c.Request.Context(), id, &service.UpdateShopInput{
		Name:           req.Name,
		DefaultTaxRate: req.DefaultTaxRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shop updated successfully", shop)
}
