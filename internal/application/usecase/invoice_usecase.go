package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

// MaxInvoiceSize tamaño máximo aceptado para el documento de la factura.
const MaxInvoiceSize = 10 << 20

var supportedInvoiceTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

// InvoiceUseCase orquesta la lectura asistida por IA de facturas de compra.
// El resultado es un borrador: no registra entradas de stock.
type InvoiceUseCase struct {
	extractor ports.InvoiceExtractor
	products  repository.ProductRepository
	timeout   time.Duration
}

// NewInvoiceUseCase construye el caso de uso inyectando el extractor.
func NewInvoiceUseCase(extractor ports.InvoiceExtractor, products repository.ProductRepository) *InvoiceUseCase {
	return &InvoiceUseCase{extractor: extractor, products: products, timeout: 30 * time.Second}
}

// ExtractDraft valida el documento, llama al extractor con un timeout de 30 s, asocia cada línea
// con el catálogo por SKU y agrega avisos cuando los totales no cuadran.
func (uc *InvoiceUseCase) ExtractDraft(ctx context.Context, document []byte, mimeType string) (*dto.InvoiceDraft, error) {
	if len(document) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}
	if len(document) > MaxInvoiceSize {
		return nil, fmt.Errorf("%w: el archivo supera %d MB", domain.ErrInvalidInput, MaxInvoiceSize>>20)
	}
	if !supportedInvoiceTypes[mimeType] {
		return nil, fmt.Errorf("%w: tipo de archivo %q no soportado", domain.ErrInvalidInput, mimeType)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	draft, err := uc.extractor.ExtractPurchaseInvoice(ctx, document, mimeType)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: extracción de factura: %w", domain.ErrTransient, err)
		}
		return nil, fmt.Errorf("extracción de factura: %w", err)
	}

	sum := decimal.Zero
	for i := range draft.Items {
		item := &draft.Items[i]
		lineTotal := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.LineTotal.IsZero() {
			item.LineTotal = lineTotal
		} else if !item.LineTotal.Round(0).Equal(lineTotal.Round(0)) {
			draft.Warnings = append(draft.Warnings,
				fmt.Sprintf("línea %d (%s): cantidad x costo = %s pero la factura dice %s", i+1, item.SKU, lineTotal.StringFixed(2), item.LineTotal.StringFixed(2)))
		}
		sum = sum.Add(item.LineTotal)

		if item.SKU == "" {
			continue
		}
		p, err := uc.products.GetBySKU(ctx, item.SKU)
		if err != nil {
			return nil, err
		}
		if p != nil {
			item.ProductID = p.ID
			item.Matched = true
		} else {
			draft.Warnings = append(draft.Warnings, fmt.Sprintf("SKU %s no existe en el catálogo", item.SKU))
		}
	}
	if !draft.Subtotal.IsZero() && !draft.Subtotal.Round(0).Equal(sum.Round(0)) {
		draft.Warnings = append(draft.Warnings,
			fmt.Sprintf("la suma de líneas (%s) no coincide con el subtotal (%s)", sum.StringFixed(2), draft.Subtotal.StringFixed(2)))
	}
	if draft.Subtotal.IsZero() {
		draft.Subtotal = sum
	}
	return draft, nil
}
