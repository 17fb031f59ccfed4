package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopledger-api/internal/application/service"
	"github.com/sangkips/shopledger-api/internal/config"
	"github.com/sangkips/shopledger-api/internal/infrastructure/blobstore"
	"github.com/sangkips/shopledger-api/internal/infrastructure/database"
	"github.com/sangkips/shopledger-api/internal/infrastructure/repository"
	"github.com/sangkips/shopledger-api/internal/presentation/http/handler"
	"github.com/sangkips/shopledger-api/internal/presentation/http/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" || !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The snapshot slot is the durable copy of the store; the live file is
	// rebuilt from it on every boot.
	blobs, err := blobstore.NewFilesystemStore(cfg.Snapshot.Dir)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}

	store, err := database.Open(ctx, cfg.Store.Path, blobs, cfg.Snapshot.SlotKey)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	// Initialize repositories
	uow := repository.NewUnitOfWork(store)
	shopRepo := repository.NewShopRepository(store)
	productRepo := repository.NewProductRepository(store)
	customerRepo := repository.NewCustomerRepository(store)
	saleRepo := repository.NewSaleRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)
	expenseRepo := repository.NewExpenseRepository(store)
	idempotencyRepo := repository.NewIdempotencyRepository(store)
	analyticsRepo := repository.NewAnalyticsRepository(store)

	// Initialize services
	snapshotService := service.NewSnapshotService(store, blobs, cfg.Snapshot.SlotKey, cfg.Snapshot.PersistOnCommit)
	shopService := service.NewShopService(shopRepo, snapshotService)
	productService := service.NewProductService(uow, productRepo, snapshotService)
	customerService := service.NewCustomerService(customerRepo, saleRepo, snapshotService)
	billingService := service.NewBillingService(saleRepo)
	saleService := service.NewSaleService(uow, saleRepo, paymentRepo, snapshotService)
	settlementService := service.NewSettlementService(uow, saleRepo, snapshotService)
	expenseService := service.NewExpenseService(expenseRepo, snapshotService)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo, saleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Shop:      handler.NewShopHandler(shopService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService, settlementService),
		Billing:   handler.NewBillingHandler(billingService),
		Sale:      handler.NewSaleHandler(saleService, settlementService),
		Expense:   handler.NewExpenseHandler(expenseService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Snapshot:  handler.NewSnapshotHandler(snapshotService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		ShopRepo:        shopRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Expired idempotency keys accumulate one row per finalized sale; sweep
	// them in the background so the table stays small.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := idempotencyRepo.DeleteExpired(ctx); err != nil {
					log.Printf("Idempotency key sweep failed: %v", err)
				}
			}
		}
	}()

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	// One last persist so the slot carries everything committed up to the
	// moment of shutdown
	if err := snapshotService.Persist(shutdownCtx); err != nil {
		log.Printf("Final snapshot persist failed: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("Store close: %v", err)
	}

	log.Println("Server stopped")
}
