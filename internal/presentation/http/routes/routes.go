package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/boiiloat/pos-api/internal/config"
	"github.com/boiiloat/pos-api/internal/domain/entity"
	domainRepo "github.com/boiiloat/pos-api/internal/domain/repository"
	"github.com/boiiloat/pos-api/internal/presentation/http/handler"
	"github.com/boiiloat/pos-api/internal/presentation/http/middleware"
	"github.com/boiiloat/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Table         *handler.TableHandler
	PaymentMethod *handler.PaymentMethodHandler
	Sale          *handler.SaleHandler
	SaleProduct   *handler.SaleProductHandler
	SalePayment   *handler.SalePaymentHandler
	Printer       *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	adminOnly := middleware.RequireRole(entity.RoleAdmin)

	// Profile
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/profile", h.Auth.Profile)
	protected.POST("/auth/change-password", h.Auth.ChangePassword)

	// User management (admin only)
	users := protected.Group("/users", adminOnly)
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
	protected.GET("/roles", adminOnly, h.User.ListRoles)

	// Catalog: reads are open to all staff, writes are admin only
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", adminOnly, h.Category.Create)
		categories.PUT("/:id", adminOnly, h.Category.Update)
		categories.DELETE("/:id", adminOnly, h.Category.Delete)
	}

	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", adminOnly, h.Product.Create)
		products.PUT("/:id", adminOnly, h.Product.Update)
		products.DELETE("/:id", adminOnly, h.Product.Delete)
	}

	tables := protected.Group("/tables")
	{
		tables.GET("", h.Table.List)
		tables.GET("/:id", h.Table.Get)
		tables.POST("", adminOnly, h.Table.Create)
		tables.PUT("/:id", adminOnly, h.Table.Update)
		tables.DELETE("/:id", adminOnly, h.Table.Delete)
	}

	paymentMethods := protected.Group("/payment-methods")
	{
		paymentMethods.GET("", h.PaymentMethod.List)
		paymentMethods.GET("/:id", h.PaymentMethod.Get)
		paymentMethods.POST("", adminOnly, h.PaymentMethod.Create)
		paymentMethods.PUT("/:id", adminOnly, h.PaymentMethod.Update)
		paymentMethods.DELETE("/:id", adminOnly, h.PaymentMethod.Delete)
	}

	// Sales: idempotency protects against double-submitted charges
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	sales := protected.Group("/sales")
	{
		sales.POST("", idempotency, h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.PUT("/:id", h.Sale.Update)
		sales.DELETE("/:id", adminOnly, h.Sale.Delete)
		sales.POST("/:id/cancel", h.Sale.Cancel)
		sales.POST("/:id/recalculate", adminOnly, h.Sale.Recalculate)
		sales.POST("/:id/print", h.Printer.PrintReceipt)

		sales.GET("/:id/products", h.SaleProduct.List)
		sales.POST("/:id/products", h.SaleProduct.Add)
		sales.PUT("/:id/products/:productId", h.SaleProduct.Update)
		sales.DELETE("/:id/products/:productId", h.SaleProduct.Remove)

		sales.GET("/:id/payments", h.SalePayment.List)
		sales.POST("/:id/payments", idempotency, h.SalePayment.Add)
		sales.PUT("/:id/payments/:paymentId", h.SalePayment.Update)
		sales.DELETE("/:id/payments/:paymentId", h.SalePayment.Remove)
	}

	saleProducts := protected.Group("/sale-products")
	{
		saleProducts.GET("", h.SaleProduct.ListAll)
		saleProducts.GET("/:id", h.SaleProduct.Get)
	}

	salePayments := protected.Group("/sale-payments")
	{
		salePayments.GET("", h.SalePayment.ListAll)
		salePayments.GET("/:id", h.SalePayment.Get)
	}

	// Printer
	protected.GET("/printer/status", h.Printer.Status)
}
