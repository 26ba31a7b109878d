package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// writeError traduce los errores de dominio a status HTTP. Lo que no es de dominio sale como 500
// sin exponer el detalle interno.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := "error interno"

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code, msg = fiber.StatusBadRequest, "INVALID_QUANTITY", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrInsufficientAvailable):
		status, code, msg = fiber.StatusConflict, "INSUFFICIENT_AVAILABLE", "disponible insuficiente"
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	case errors.Is(err, domain.ErrDuplicate):
		status, code, msg = fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"
	case errors.Is(err, domain.ErrConflict):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrTransient):
		status, code, msg = fiber.StatusServiceUnavailable, "UNAVAILABLE", "el almacén no respondió; consulte el estado antes de reintentar"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "no autorizado"
	}

	if status >= fiber.StatusInternalServerError && log != nil {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error en petición")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
