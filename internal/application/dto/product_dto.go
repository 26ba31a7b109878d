package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto del catálogo. El stock inicial se registra
// después con un ajuste de motivo initial_stock.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	ReorderQuantity   int             `json:"reorder_quantity"`
	Specification     json.RawMessage `json:"specification"`
	// UseDefaults completa la ficha con los valores sugeridos para la categoría y el kit.
	UseDefaults bool            `json:"use_defaults"`
	Kit         DefaultsContext `json:"kit"`
}

// DefaultsContext datos del kit para el llenado rápido de fichas.
type DefaultsContext struct {
	Technology string `json:"technology" query:"technology"`
	Channels   int    `json:"channels" query:"channels"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	StockQuantity     int             `json:"stock_quantity"`
	ReservedStock     int             `json:"reserved_stock"`
	MinimumStockLevel int             `json:"minimum_stock_level"`
	ReorderQuantity   int             `json:"reorder_quantity"`
	Specification     json.RawMessage `json:"specification"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// NewProductResponse convierte la entidad.
func NewProductResponse(p *entity.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Price:             p.Price,
		LastPurchasePrice: p.LastPurchasePrice,
		StockQuantity:     p.StockQuantity,
		ReservedStock:     p.ReservedStock,
		MinimumStockLevel: p.MinimumStockLevel,
		ReorderQuantity:   p.ReorderQuantity,
		Specification:     p.Specification,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []*ProductResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
