package routes

import (
	"net/http"

	"github.com/Nitesh-Kashyap/Bill-desk/internal/config"
	domainRepo "github.com/Nitesh-Kashyap/Bill-desk/internal/domain/repository"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/handler"
	"github.com/Nitesh-Kashyap/Bill-desk/internal/presentation/http/middleware"
	"github.com/Nitesh-Kashyap/Bill-desk/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product *handler.ProductHandler
	Bill    *handler.BillHandler
	Printer *handler.PrinterHandler
	Report  *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.UserRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes, all authenticated
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}

	registerProductRoutes(v1, h)
	registerBillRoutes(v1, h, deps)
	registerPrinterRoutes(v1, h)
	registerReportRoutes(v1, h)

	return router
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/products", h.Product.List)
}

func registerBillRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := v1.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Bill.Create)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/invoice", h.Bill.RenderInvoice)
		bills.GET("/:id/invoice", h.Bill.DownloadInvoice)
		bills.POST("/:id/print", h.Printer.PrintBill)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printer := v1.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/reports/summary", h.Report.Summary)
}
