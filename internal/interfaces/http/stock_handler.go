package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// StockHandler entradas y salidas de stock, reposición y conciliación (protegido).
type StockHandler struct {
	ledger    *inventory.StockLedgerUseCase
	lowStock  *inventory.LowStockUseCase
	reconcile *inventory.ReconcileUseCase
	log       *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedgerUseCase, lowStock *inventory.LowStockUseCase, reconcile *inventory.ReconcileUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{ledger: ledger, lowStock: lowStock, reconcile: reconcile, log: log}
}

// ReceivePurchase godoc
// @Summary      Registrar recepción de compra
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "product_id, quantity, unit_cost"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/purchase [post]
func (h *StockHandler) ReceivePurchase(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.ReceivePurchase(c.UserContext(), inventory.PurchaseInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		Reason:        in.Reason,
		Notes:         in.Notes,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(res.Movement))
}

// ApplyAdjustment godoc
// @Summary      Ajuste manual de inventario
// @Description  type add|remove; reason damage|loss|correction|expired|found|initial_stock|other.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) ApplyAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.ApplyAdjustment(c.UserContext(), inventory.AdjustmentInput{
		ProductID:     in.ProductID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		Notes:         in.Notes,
		SerialNumbers: in.SerialNumbers,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(res.Movement))
}

// RegisterSale godoc
// @Summary      Venta directa (sin cotización)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "product_id, quantity, reference_id"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sale [post]
func (h *StockHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.RegisterSale(c.UserContext(), stockOutInput(c, in))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(res.Movement))
}

// RegisterReturn godoc
// @Summary      Devolución de cliente
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "product_id, quantity, reference_id"
// @Success      201   {object}  dto.StockMovementResponse
// @Router       /api/stock/return [post]
func (h *StockHandler) RegisterReturn(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.RegisterReturn(c.UserContext(), stockOutInput(c, in))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(res.Movement))
}

// LowStock godoc
// @Summary      Lista de reposición
// @Description  Productos con disponible <= mínimo, agotados primero, con cantidad sugerida de pedido.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.lowStock.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// Reconcile godoc
// @Summary      Conciliar agregados contra el ledger
// @Description  Reproduce el ledger de cada producto. Solo reporta; no corrige.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Conciliar un solo producto"
// @Success      200  {array}  dto.ReconciliationResultDTO
// @Router       /api/stock/reconcile [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	if id := c.Query("product_id"); id != "" {
		r, err := h.reconcile.ReconcileProduct(c.UserContext(), id)
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON([]dto.ReconciliationResultDTO{*r})
	}
	results, err := h.reconcile.ReconcileAll(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(results)
}

func stockOutInput(c *fiber.Ctx, in dto.StockOutRequest) inventory.StockOutInput {
	return inventory.StockOutInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	}
}
