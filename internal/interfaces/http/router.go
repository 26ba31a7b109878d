package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/pkg/jwt"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// RouterDeps dependencias para el router. InvoiceUC es opcional (sin IA configurada no se expone la ruta).
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Ledger      *inventory.StockLedgerUseCase
	LowStock    *inventory.LowStockUseCase
	Reconcile   *inventory.ReconcileUseCase
	Report      *inventory.MovementReportUseCase
	InvoiceUC   *usecase.InvoiceUseCase
	JWTSecret   string
	JWTIssuer   string
	ServiceName string
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todas las rutas de /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	sales := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Stock
	stockHandler := NewStockHandler(deps.Ledger, deps.LowStock, deps.Reconcile, log)
	stock := api.Group("/stock")
	stock.Post("/purchase", warehouse, stockHandler.ReceivePurchase)
	stock.Post("/adjust", warehouse, stockHandler.ApplyAdjustment)
	stock.Post("/sale", sales, stockHandler.RegisterSale)
	stock.Post("/return", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor), stockHandler.RegisterReturn)
	stock.Get("/low-stock", stockHandler.LowStock)
	stock.Get("/reconcile", adminOnly, stockHandler.Reconcile)

	// Reservas de cotización
	reservationHandler := NewReservationHandler(deps.Ledger, log)
	reservations := api.Group("/reservations")
	reservations.Post("/", sales, reservationHandler.Reserve)
	reservations.Post("/release", sales, reservationHandler.Release)
	reservations.Get("/:id", reservationHandler.Get)
	reservations.Post("/:id/release", sales, reservationHandler.ReleaseByID)
	reservations.Post("/:id/convert", sales, reservationHandler.Convert)
	api.Post("/quotations/:quotation_id/release", sales, reservationHandler.ReleaseQuotation)

	// Productos
	productHandler := NewProductHandler(deps.ProductUC, deps.Ledger, deps.Report, log)
	products := api.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/defaults/:category", productHandler.Defaults)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/status", productHandler.Status)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/movements/report", productHandler.MovementReport)

	// Lectura de facturas de compra con IA
	if deps.InvoiceUC != nil {
		aiHandler := NewAIHandler(deps.InvoiceUC, log)
		api.Post("/purchases/extract", warehouse, aiHandler.ExtractPurchaseInvoice)
	}
}
