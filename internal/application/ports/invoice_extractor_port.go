package ports

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
)

// InvoiceExtractor define el puerto de salida hacia el servicio de IA que lee facturas de proveedor.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El resultado es de mejor esfuerzo: la aplicación no lo trata como verdad.
type InvoiceExtractor interface {
	// ExtractPurchaseInvoice recibe el documento (PDF o imagen) y devuelve el borrador estructurado.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	ExtractPurchaseInvoice(ctx context.Context, document []byte, mimeType string) (*dto.InvoiceDraft, error)
}
