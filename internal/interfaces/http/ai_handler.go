package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// AIHandler lectura asistida por IA de facturas de compra.
type AIHandler struct {
	uc  *usecase.InvoiceUseCase
	log *logger.Logger
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.InvoiceUseCase, log *logger.Logger) *AIHandler {
	return &AIHandler{uc: uc, log: log}
}

// ExtractPurchaseInvoice godoc
// @Summary      Leer factura de compra con IA
// @Description  Recibe la factura del proveedor (PDF o imagen, máx. 10 MB) y devuelve un borrador con las líneas asociadas al catálogo por SKU. No registra stock: el operador revisa el borrador y luego registra cada compra. Timeout interno de 30 s.
// @Tags         ai
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Factura (pdf, png, jpeg, webp)"
// @Success      200   {object}  dto.InvoiceDraft
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/purchases/extract [post]
func (h *AIHandler) ExtractPurchaseInvoice(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "MISSING_FILE", Message: "el campo file es obligatorio",
		})
	}
	if fh.Size > usecase.MaxInvoiceSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
			Code: "FILE_TOO_LARGE", Message: "el archivo supera 10 MB",
		})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()
	document, err := io.ReadAll(io.LimitReader(f, usecase.MaxInvoiceSize+1))
	if err != nil {
		return writeError(c, h.log, err)
	}

	mimeType := strings.TrimSpace(strings.Split(fh.Header.Get(fiber.HeaderContentType), ";")[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = strings.Split(http.DetectContentType(document), ";")[0]
	}

	draft, err := h.uc.ExtractDraft(c.UserContext(), document, mimeType)
	if err != nil {
		// Timeout del contexto → 408 Request Timeout
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		}
		// API key no configurada
		if strings.Contains(err.Error(), "API_KEY") {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "AI_UNAVAILABLE", Message: "el servicio de lectura de facturas no está configurado",
			})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(draft)
}
