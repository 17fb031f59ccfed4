package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/config"
	domainRepo "github.com/sangkips/shopledger-api/internal/domain/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Shop      *handler.ShopHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Billing   *handler.BillingHandler
	Sale      *handler.SaleHandler
	Expense   *handler.ExpenseHandler
	Dashboard *handler.DashboardHandler
	Snapshot  *handler.SnapshotHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	ShopRepo        domainRepo.ShopRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Per-shop rate limiter. Misconfigured limits fall back to the defaults
	// rather than dividing by zero into an unlimited rate.
	rlCfg := middleware.DefaultRateLimiterConfig()
	if deps.Cfg.RateLimit.Requests > 0 && deps.Cfg.RateLimit.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration)
		rlCfg.BurstSize = deps.Cfg.RateLimit.Requests
	}
	rateLimiter := middleware.NewShopRateLimiter(rlCfg)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "ok",
			"service":    deps.Cfg.App.Name,
			"rate_limit": rateLimiter.Stats(),
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Shop administration and snapshot operations sit outside the
		// shop scope; everything the register touches sits inside it.
		registerShopRoutes(v1, h)
		registerSnapshotRoutes(v1, h)

		scoped := v1.Group("")
		scoped.Use(middleware.ShopMiddleware(deps.ShopRepo))
		scoped.Use(rateLimiter.Middleware())

		registerScopedRoutes(scoped, h, deps)
	}

	return router
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Dashboard
	scoped.GET("/dashboard", h.Dashboard.GetStats)

	// Bill preview
	scoped.POST("/billing/preview", h.Billing.Preview)

	// Sales
	registerSaleRoutes(scoped, h, deps)

	// Products
	registerProductRoutes(scoped, h)

	// Customers
	registerCustomerRoutes(scoped, h, deps)

	// Expenses
	registerExpenseRoutes(scoped, h)
}

func registerShopRoutes(v1 *gin.RouterGroup, h *Handlers) {
	shops := v1.Group("/shops")
	{
		shops.GET("", h.Shop.List)
		shops.POST("", h.Shop.Create)
		shops.GET("/:id", h.Shop.Get)
		shops.PUT("/:id", h.Shop.Update)
	}
}

func registerSnapshotRoutes(v1 *gin.RouterGroup, h *Handlers) {
	snapshots := v1.Group("/snapshots")
	{
		snapshots.POST("", h.Snapshot.Persist)
		snapshots.GET("/status", h.Snapshot.Status)
		snapshots.GET("/export", h.Snapshot.Export)
		snapshots.POST("/restore", h.Snapshot.Restore)
	}
}

func registerSaleRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := scoped.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		// Finalization requires an idempotency key so a register retrying
		// a timed-out request cannot ring the same cart twice
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Finalize)
		sales.GET("/outstanding", h.Sale.GetOutstanding)
		sales.GET("/:id", h.Sale.Get)
		sales.GET("/:id/payments", h.Sale.ListPayments)
		// Settlements replay when the register retries with a key, but the
		// key stays optional; a quick cash drop is fine without one
		sales.POST("/:id/settlements", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Settle)
	}
}

func registerProductRoutes(scoped *gin.RouterGroup, h *Handlers) {
	products := scoped.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/barcode/:barcode", h.Product.GetByBarcode)
		products.GET("/:no", h.Product.Get)
		products.PUT("/:no", h.Product.Update)
		products.POST("/:no/stock-adjustments", h.Product.AdjustStock)
		products.DELETE("/:no", h.Product.Delete)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	customers := scoped.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:mobile", h.Customer.Get)
		customers.GET("/:mobile/balance", h.Customer.GetBalance)
		customers.POST("/:mobile/settlements", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Customer.Settle)
		customers.PUT("/:mobile", h.Customer.Update)
		customers.DELETE("/:mobile", h.Customer.Delete)
	}
}

func registerExpenseRoutes(scoped *gin.RouterGroup, h *Handlers) {
	expenses := scoped.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.GET("/:id", h.Expense.Get)
		expenses.PUT("/:id", h.Expense.Update)
		expenses.DELETE("/:id", h.Expense.Delete)
	}
}
