package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// BillingHandler handles bill preview requests
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Preview computes a bill for the register display without writing
// anything. The same computation runs again at finalization, so the figures
// shown here are exactly the figures that will be stored.
func (h *BillingHandler) Preview(c *gin.Context) {
	var req request.PreviewBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bill, err := h.billingService.Preview(c.Request.Context(), req.CustomerMobile, service.BillInput{
		Items:          toCartItems(req.Items),
		DiscountAmount: req.DiscountAmount,
		TaxRatePercent: req.TaxRatePercent,
		PaidAmount:     req.PaidAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill computed successfully", bill)
}
