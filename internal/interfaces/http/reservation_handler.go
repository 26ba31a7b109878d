package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// ReservationHandler reservas de stock para cotizaciones (protegido).
type ReservationHandler struct {
	ledger *inventory.StockLedgerUseCase
	log    *logger.Logger
}

// NewReservationHandler construye el handler.
func NewReservationHandler(ledger *inventory.StockLedgerUseCase, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{ledger: ledger, log: log}
}

// Reserve godoc
// @Summary      Reservar stock para una cotización
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "quotation_id, product_id, quantity"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.Reserve(c.UserContext(), inventory.ReserveInput{
		QuotationID: in.QuotationID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReservationResponse(res.Reservation))
}

// Get godoc
// @Summary      Consultar reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *fiber.Ctx) error {
	r, err := h.ledger.GetReservation(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewReservationResponse(r))
}

// ReleaseByID godoc
// @Summary      Liberar reserva
// @Description  Idempotente: liberar una reserva ya liberada devuelve 200 sin cambios.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/release [post]
func (h *ReservationHandler) ReleaseByID(c *fiber.Ctx) error {
	res, err := h.ledger.ReleaseByID(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewReservationResponse(res.Reservation))
}

// Release godoc
// @Summary      Liberar reserva por cotización y producto
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseRequest  true  "quotation_id, product_id"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reservations/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.Release(c.UserContext(), in.QuotationID, in.ProductID, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewReservationResponse(res.Reservation))
}

// Convert godoc
// @Summary      Convertir reserva en venta
// @Description  Libera la reserva (estado converted) y descuenta el stock físico en la misma transacción.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la reserva"
// @Param        body  body  dto.ConvertReservationRequest  false  "reference_id del pedido"
// @Success      201   {object}  dto.StockMovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/convert [post]
func (h *ReservationHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertReservationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	res, err := h.ledger.ConvertToSale(c.UserContext(), c.Params("id"), in.ReferenceID, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockMovementResponse(res.Sale))
}

// ReleaseQuotation godoc
// @Summary      Liberar todas las reservas de una cotización
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        quotation_id  path  string  true  "ID de la cotización"
// @Success      200  {array}  dto.ReservationResponse
// @Router       /api/quotations/{quotation_id}/release [post]
func (h *ReservationHandler) ReleaseQuotation(c *fiber.Ctx) error {
	out, err := h.ledger.ReleaseQuotation(c.UserContext(), c.Params("quotation_id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	list := make([]dto.ReservationResponse, 0, len(out))
	for _, r := range out {
		list = append(list, dto.NewReservationResponse(r.Reservation))
	}
	return c.JSON(list)
}
