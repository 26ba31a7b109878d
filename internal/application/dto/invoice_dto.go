package dto

import "github.com/shopspring/decimal"

// InvoiceDraft borrador de compra extraído por IA de una factura de proveedor.
// Es un resultado aproximado: el operador lo corrige antes de registrar las entradas.
type InvoiceDraft struct {
	VendorName    string             `json:"vendor_name"`
	VendorTaxID   string             `json:"vendor_tax_id,omitempty"`
	InvoiceNumber string             `json:"invoice_number,omitempty"`
	InvoiceDate   string             `json:"invoice_date,omitempty"` // YYYY-MM-DD tal como lo leyó el modelo
	Currency      string             `json:"currency,omitempty"`
	Items         []InvoiceDraftItem `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// InvoiceDraftItem línea del borrador. ProductID se completa cuando el SKU existe en el catálogo.
type InvoiceDraftItem struct {
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ProductID   string          `json:"product_id,omitempty"`
	Matched     bool            `json:"matched"`
}
