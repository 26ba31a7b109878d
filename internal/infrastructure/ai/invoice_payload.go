package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
)

// invoicePrompt instrucciones comunes a los proveedores de IA para leer facturas de compra.
const invoicePrompt = `Eres un asistente de bodega de una tienda de equipos CCTV (cámaras, DVR, NVR, cable, fuentes, discos).
Lee la factura de compra adjunta y devuelve ÚNICAMENTE un objeto JSON (sin markdown) con esta estructura exacta:
{
  "vendor_name": "<razón social del proveedor>",
  "vendor_tax_id": "<NIT o identificación tributaria>",
  "invoice_number": "<número de factura>",
  "invoice_date": "<YYYY-MM-DD>",
  "currency": "<código ISO 4217>",
  "items": [
    {"sku": "<referencia o código del producto>", "description": "<descripción>", "quantity": <entero>, "unit_cost": <número>, "line_total": <número>}
  ],
  "subtotal": <número>,
  "tax": <número>,
  "total": <número>
}

Reglas:
- Usa punto como separador decimal y sin separador de miles.
- Si un campo no aparece en el documento déjalo vacío ("") o en 0.
- quantity siempre es un entero positivo.
- No incluyas texto fuera del JSON.`

// invoicePayload JSON que esperamos del modelo. Los montos llegan como número o texto.
type invoicePayload struct {
	VendorName    string        `json:"vendor_name"`
	VendorTaxID   string        `json:"vendor_tax_id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	Currency      string        `json:"currency"`
	Items         []invoiceLine `json:"items"`
	Subtotal      flexDecimal   `json:"subtotal"`
	Tax           flexDecimal   `json:"tax"`
	Total         flexDecimal   `json:"total"`
}

type invoiceLine struct {
	SKU         string      `json:"sku"`
	Description string      `json:"description"`
	Quantity    flexDecimal `json:"quantity"`
	UnitCost    flexDecimal `json:"unit_cost"`
	LineTotal   flexDecimal `json:"line_total"`
}

// flexDecimal acepta 12.5, "12.5" o "" (cero).
type flexDecimal struct {
	decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		f.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("monto %q inválido: %w", s, err)
	}
	f.Decimal = d
	return nil
}

// toDraft convierte la respuesta del modelo en un borrador. Las líneas sin cantidad se descartan con aviso.
func (p invoicePayload) toDraft() *dto.InvoiceDraft {
	draft := &dto.InvoiceDraft{
		VendorName:    strings.TrimSpace(p.VendorName),
		VendorTaxID:   strings.TrimSpace(p.VendorTaxID),
		InvoiceNumber: strings.TrimSpace(p.InvoiceNumber),
		InvoiceDate:   strings.TrimSpace(p.InvoiceDate),
		Currency:      strings.ToUpper(strings.TrimSpace(p.Currency)),
		Items:         make([]dto.InvoiceDraftItem, 0, len(p.Items)),
		Subtotal:      p.Subtotal.Decimal,
		Tax:           p.Tax.Decimal,
		Total:         p.Total.Decimal,
	}
	for i, line := range p.Items {
		qty := line.Quantity.Decimal
		if !qty.IsPositive() {
			draft.Warnings = append(draft.Warnings, fmt.Sprintf("línea %d sin cantidad válida; se omitió", i+1))
			continue
		}
		if !qty.Equal(qty.Truncate(0)) {
			draft.Warnings = append(draft.Warnings, fmt.Sprintf("línea %d con cantidad fraccionaria %s; se redondeó", i+1, qty))
		}
		draft.Items = append(draft.Items, dto.InvoiceDraftItem{
			SKU:         strings.TrimSpace(line.SKU),
			Description: strings.TrimSpace(line.Description),
			Quantity:    int(qty.Round(0).IntPart()),
			UnitCost:    line.UnitCost.Decimal,
			LineTotal:   line.LineTotal.Decimal,
		})
	}
	return draft
}

// parseInvoiceText extrae y decodifica el JSON de la respuesta de texto del modelo.
func parseInvoiceText(provider, text string) (*dto.InvoiceDraft, error) {
	clean := extractJSON(text)
	if clean == "" {
		return nil, fmt.Errorf("AI: %s no devolvió JSON (respuesta: %.200s)", provider, text)
	}
	var payload invoicePayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de factura: %w", err)
	}
	return payload.toDraft(), nil
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre: quita bloques ``` y, si hace falta,
// toma desde el primer '{' hasta el último '}'.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
