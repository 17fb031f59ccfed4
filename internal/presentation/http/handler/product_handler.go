package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Category:  filter.Category,
		LowStock:  filter.LowStock,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	result, err := h.productService.ListProducts(c.Request.Context(), *shopID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		ShopID:         *shopID,
		Description:    req.Description,
		DescriptionAlt: req.DescriptionAlt,
		Barcode:        req.Barcode,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		Stock:          req.Stock,
		StockAlert:     req.StockAlert,
		Category:       req.Category,
		TaxCode:        req.TaxCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product by its number
func (h *ProductHandler) Get(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	productNo, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product number")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), *shopID, productNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// GetByBarcode handles barcode lookups from the register scanner
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	barcode := c.Param("barcode")
	if barcode == "" {
		response.BadRequest(c, "Barcode is required")
		return
	}

	product, err := h.productService.GetProductByBarcode(c.Request.Context(), *shopID, barcode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	productNo, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product number")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), *shopID, productNo, &service.UpdateProductInput{
		Description:    req.Description,
		DescriptionAlt: req.DescriptionAlt,
		Barcode:        req.Barcode,
		WholesalePrice: req.WholesalePrice,
		RetailPrice:    req.RetailPrice,
		Stock:          req.Stock,
		StockAlert:     req.StockAlert,
		Category:       req.Category,
		TaxCode:        req.TaxCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// AdjustStock handles a manual stock correction outside any sale
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	productNo, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product number")
		return
	}

	var req struct {
		Delta  decimal.Decimal `json:"delta"`
		Reason string          `json:"reason" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), *shopID, productNo, req.Delta, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}

// Delete handles deleting a product by number
func (h *ProductHandler) Delete(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	productNo, err := strconv.ParseInt(c.Param("no"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product number")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), *shopID, productNo); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting products at or below their stock alert level
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	shopID := GetShopID(c)
	if shopID == nil {
		response.BadRequest(c, "Shop context required")
		return
	}

	products, err := h.productService.GetLowStockProducts(c.Request.Context(), *shopID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}
