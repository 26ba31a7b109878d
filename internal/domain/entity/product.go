package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo CCTV.
// StockQuantity y ReservedStock solo los modifica el ledger de inventario (nunca la UI ni el CRUD).
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	Description       string
	Category          string // camera, dvr, nvr, cable, power_supply, hard_disk, accessory
	Price             decimal.Decimal
	LastPurchasePrice decimal.Decimal // último costo unitario recibido en compra
	StockQuantity     int             // stock físico (on-hand)
	ReservedStock     int             // comprometido en cotizaciones activas
	MinimumStockLevel int             // umbral de stock bajo
	ReorderQuantity   int             // cantidad sugerida de pedido
	Specification     json.RawMessage // ficha técnica según categoría (ver domain/catalog)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
