package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetShopID extracts the shop ID the shop middleware resolved for this
// request
func GetShopID(c *gin.Context) *uuid.UUID {
	shopIDVal, exists := c.Get("shop_id")
	if !exists {
		return nil
	}
	shopID, ok := shopIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &shopID
}
