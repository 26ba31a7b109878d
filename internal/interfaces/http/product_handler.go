package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// ProductHandler catálogo y vistas de stock por producto (protegido).
type ProductHandler struct {
	uc     *usecase.ProductUseCase
	ledger *inventory.StockLedgerUseCase
	report *inventory.MovementReportUseCase
	log    *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, ledger *inventory.StockLedgerUseCase, report *inventory.MovementReportUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, ledger: ledger, report: report, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Description  El producto nace con stock 0; el inventario inicial se carga con un ajuste initial_stock.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Defaults godoc
// @Summary      Ficha técnica sugerida por categoría
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        category    path   string  true   "camera, dvr, nvr, cable, power_supply, hard_disk, accessory"
// @Param        technology  query  string  false  "hd_analog | ip"
// @Param        channels    query  int     false  "Canales del kit"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/products/defaults/{category} [get]
func (h *ProductHandler) Defaults(c *fiber.Ctx) error {
	var kit dto.DefaultsContext
	if err := c.QueryParser(&kit); err != nil {
		return badBody(c)
	}
	raw, err := h.uc.Defaults(c.Params("category"), kit)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}

// Status godoc
// @Summary      Estado de stock del producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/status [get]
func (h *ProductHandler) Status(c *fiber.Ctx) error {
	st, err := h.ledger.GetStatus(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(st)
}

// Movements godoc
// @Summary      Historial de movimientos (auditoría)
// @Description  Orden de creación, el más antiguo primero.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()
	id := c.Params("id")
	movs, total, err := h.ledger.ListMovements(c.UserContext(), id, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.MovementListResponse{
		ProductID: id,
		Movements: make([]dto.StockMovementResponse, 0, len(movs)),
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, dto.NewStockMovementResponse(m))
	}
	return c.JSON(out)
}

// MovementReport godoc
// @Summary      Kardex en PDF
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements/report [get]
func (h *ProductHandler) MovementReport(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.report.Generate(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="kardex-`+id+`.pdf"`)
	return c.Send(pdf)
}
