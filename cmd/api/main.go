package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/boiiloat/pos-api/internal/application/service"
	"github.com/boiiloat/pos-api/internal/config"
	"github.com/boiiloat/pos-api/internal/infrastructure/database"
	"github.com/boiiloat/pos-api/internal/infrastructure/repository"
	"github.com/boiiloat/pos-api/internal/presentation/http/handler"
	"github.com/boiiloat/pos-api/internal/presentation/http/routes"
	"github.com/boiiloat/pos-api/pkg/printer"
	"github.com/boiiloat/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed roles and the initial admin user
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	tableRepo := repository.NewTableRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleProductRepo := repository.NewSaleProductRepository(db)
	salePaymentRepo := repository.NewSalePaymentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo, roleRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	tableService := service.NewTableService(tableRepo)
	paymentMethodService := service.NewPaymentMethodService(paymentMethodRepo)
	saleService := service.NewSaleService(saleRepo, saleProductRepo, salePaymentRepo, productRepo, tableRepo, txManager)
	saleProductService := service.NewSaleProductService(saleRepo, saleProductRepo, salePaymentRepo, productRepo, txManager)
	salePaymentService := service.NewSalePaymentService(saleRepo, saleProductRepo, salePaymentRepo, paymentMethodRepo, txManager)

	// Initialize the receipt printer
	receiptPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		receiptPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(
		receiptPrinter,
		saleRepo,
		userRepo,
		cfg.Printer.Type,
		cfg.Printer.StoreName,
		cfg.Printer.Width,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Category:      handler.NewCategoryHandler(categoryService),
		Product:       handler.NewProductHandler(productService),
		Table:         handler.NewTableHandler(tableService),
		PaymentMethod: handler.NewPaymentMethodHandler(paymentMethodService),
		Sale:          handler.NewSaleHandler(saleService),
		SaleProduct:   handler.NewSaleProductHandler(saleProductService),
		SalePayment:   handler.NewSalePaymentHandler(salePaymentService),
		Printer:       handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
