package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/optica-neyra/backend/internal/application/catalog"
	checkoutapp "github.com/optica-neyra/backend/internal/application/checkout"
	partnerapp "github.com/optica-neyra/backend/internal/application/partner"
	reportapp "github.com/optica-neyra/backend/internal/application/report"
	"github.com/optica-neyra/backend/internal/domain/checkout"
	"github.com/optica-neyra/backend/internal/infrastructure/config"
	"github.com/optica-neyra/backend/internal/infrastructure/logger"
	"github.com/optica-neyra/backend/internal/infrastructure/persistence"
	"github.com/optica-neyra/backend/internal/interfaces/http/handler"
	"github.com/optica-neyra/backend/internal/interfaces/http/middleware"
	"github.com/optica-neyra/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Óptica Neyra backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.POS.StoreName),
	)

	storeLocation, err := time.LoadLocation(cfg.POS.Timezone)
	if err != nil {
		log.Fatal("Invalid pos.timezone", zap.String("timezone", cfg.POS.Timezone), zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)

	// Application services
	storeInfo := checkout.StoreInfo{Name: cfg.POS.StoreName, City: cfg.POS.StoreCity}
	productService := catalogapp.NewProductService(productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, saleRepo)
	checkoutService := checkoutapp.NewCheckoutService(productRepo, customerRepo, saleRepo, cfg.POS.TaxRate, storeInfo)
	reportService := reportapp.NewSalesReportService(saleRepo)
	cartStore := checkoutapp.NewCartStore()

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	checkoutHandler := handler.NewCheckoutHandler(cartStore, checkoutService)
	reportHandler := handler.NewReportHandler(reportService, storeLocation)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	middleware.SetupValidator()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.ContextLogger(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.GET("/health", healthHandler(db))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/low-stock", productHandler.ListLowStock)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/code/:code", productHandler.GetByCode)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/restock", productHandler.Restock)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.GET("/customers/:id/purchases", customerHandler.PurchaseHistory)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)

	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("/carts", checkoutHandler.CreateCart)
	checkoutRoutes.GET("/carts/:id", checkoutHandler.GetCart)
	checkoutRoutes.DELETE("/carts/:id", checkoutHandler.DiscardCart)
	checkoutRoutes.POST("/carts/:id/items", checkoutHandler.AddItem)
	checkoutRoutes.PUT("/carts/:id/items/:product_id", checkoutHandler.SetQuantity)
	checkoutRoutes.DELETE("/carts/:id/items/:product_id", checkoutHandler.RemoveItem)
	checkoutRoutes.PUT("/carts/:id/discount", checkoutHandler.SetDiscount)
	checkoutRoutes.GET("/carts/:id/totals", checkoutHandler.GetTotals)
	checkoutRoutes.POST("/carts/:id/commit", checkoutHandler.Commit)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/sales/summary", reportHandler.GetSalesSummary)
	reportRoutes.GET("/sales/top-products", reportHandler.GetTopProducts)
	reportRoutes.GET("/sales/daily-trend", reportHandler.GetDailyTrend)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(catalogRoutes).
		Register(partnerRoutes).
		Register(checkoutRoutes).
		Register(reportRoutes).
		Register(systemRoutes).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
