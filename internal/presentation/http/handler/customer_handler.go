package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/domain/enum"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopledger-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService   *service.CustomerService
	settlementService *service.SettlementService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, settlementService *service.SettlementService) *CustomerHandler {
	return &CustomerHandler{
		customerService:   customerService,
		settlementService: settlementService,
	}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"omitempty,max=255"`
		Mobile string `json:"mobile" binding:"required,max=30"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:   req.Name,
		Mobile: req.Mobile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer by mobile
func (h *CustomerHandler) Get(c *gin.Context) {
	mobile := c.Param("mobile")
	if mobile == "" {
		response.BadRequest(c, "Customer mobile is required")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), mobile)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// GetBalance handles getting a customer's outstanding balance and the
// unsettled sales behind it
func (h *CustomerHandler) GetBalance(c *gin.Context) {
	mobile := c.Param("mobile")
	if mobile == "" {
		response.BadRequest(c, "Customer mobile is required")
		return
	}

	balance, err := h.customerService.GetBalance(c.Request.Context(), mobile)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer balance retrieved successfully", balance)
}

// Settle handles paying down a customer's balance across their outstanding
// sales, oldest first
func (h *CustomerHandler) Settle(c *gin.Context) {
	mobile := c.Param("mobile")
	if mobile == "" {
		response.BadRequest(c, "Customer mobile is required")
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

	result, err := h.settlementService.SettleCustomerBalance(c.Request.Context(), mobile, req.Amount, method)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settlement recorded successfully", result)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	mobile := c.Param("mobile")
	if mobile == "" {
		response.BadRequest(c, "Customer mobile is required")
		return
	}

	var req struct {
		Name   *string `json:"name" binding:"omitempty,max=255"`
		Mobile *string `json:"mobile" binding:"omitempty,max=30"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), mobile, &service.UpdateCustomerInput{
		Name:   req.Name,
		Mobile: req.Mobile,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer record. Their sales history and any
// outstanding balance stay; both key off the denormalized mobile.
func (h *CustomerHandler) Delete(c *gin.Context) {
	mobile := c.Param("mobile")
	if mobile == "" {
		response.BadRequest(c, "Customer mobile is required")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), mobile); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
