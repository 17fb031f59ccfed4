package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/dto/response"
)

// ShopHeader carries the shop a request operates on
const ShopHeader = "X-Shop-ID"

// ShopMiddleware resolves the request's shop and adds it to the context.
// Single-shop terminals may omit the header: when exactly one shop exists
// it is used implicitly.
func ShopMiddleware(shopRepo repository.ShopRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(ShopHeader)

		if header == "" {
			shops, err := shopRepo.List(c.Request.Context())
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			if len(shops) != 1 {
				response.BadRequest(c, ShopHeader+" header is required")
				c.Abort()
				return
			}
			c.Set("shop_id", shops[0].ID)
			c.Next()
			return
		}

		shopID, err := uuid.Parse(header)
		if err != nil {
			response.BadRequest(c, "Invalid "+ShopHeader+" header")
			c.Abort()
			return
		}

		shop, err := shopRepo.GetByID(c.Request.Context(), shopID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if shop == nil {
			response.NotFound(c, "Shop not found")
			c.Abort()
			return
		}

		c.Set("shop_id", shop.ID)
		c.Next()
	}
}

// GetShopID retrieves the shop ID from gin context
func GetShopID(c *gin.Context) uuid.UUID {
	shopID, exists := c.Get("shop_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := shopID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
