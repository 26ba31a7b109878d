package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// ReceivePurchaseRequest body para POST /api/stock/purchase.
type ReceivePurchaseRequest struct {
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reason        string          `json:"reason,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"` // orden de compra / factura del proveedor
}

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	ProductID     string   `json:"product_id"`
	Type          string   `json:"type"` // add | remove
	Quantity      int      `json:"quantity"`
	Reason        string   `json:"reason"`
	Notes         string   `json:"notes,omitempty"`
	SerialNumbers []string `json:"serial_numbers,omitempty"`
}

// StockOutRequest body para ventas directas y devoluciones.
type StockOutRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id,omitempty"` // pedido
	Notes       string `json:"notes,omitempty"`
}

// ReserveRequest body para POST /api/reservations.
type ReserveRequest struct {
	QuotationID string `json:"quotation_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

// ReleaseRequest body para POST /api/reservations/release.
type ReleaseRequest struct {
	QuotationID string `json:"quotation_id"`
	ProductID   string `json:"product_id"`
}

// ConvertReservationRequest body opcional para POST /api/reservations/:id/convert.
type ConvertReservationRequest struct {
	ReferenceID string `json:"reference_id,omitempty"` // pedido generado desde la cotización
}

// StockMovementResponse salida de un movimiento del ledger.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	ActionType     string    `json:"action_type"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	Reason         string    `json:"reason,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewStockMovementResponse convierte la entidad a su representación HTTP.
func NewStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ActionType:     m.ActionType,
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		Notes:          m.Notes,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		UserID:         m.UserID,
		CreatedAt:      m.CreatedAt,
	}
}

// MovementListResponse historial paginado (auditoría) de un producto.
type MovementListResponse struct {
	ProductID string                  `json:"product_id"`
	Movements []StockMovementResponse `json:"movements"`
	Page      PageResponse            `json:"page"`
}

// ReservationResponse salida de una reserva de cotización.
type ReservationResponse struct {
	ID          string     `json:"id"`
	QuotationID string     `json:"quotation_id"`
	ProductID   string     `json:"product_id"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	ReservedAt  time.Time  `json:"reserved_at"`
	ReleasedAt  *time.Time `json:"released_at,omitempty"`
}

// NewReservationResponse convierte la entidad a su representación HTTP.
func NewReservationResponse(r *entity.QuotationReservation) ReservationResponse {
	return ReservationResponse{
		ID:          r.ID,
		QuotationID: r.QuotationID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Status:      r.Status,
		ReservedAt:  r.ReservedAt,
		ReleasedAt:  r.ReleasedAt,
	}
}

// StockStatusResponse vista derivada para GET /api/products/:id/status.
type StockStatusResponse struct {
	ProductID         string `json:"product_id"`
	StockQuantity     int    `json:"stock_quantity"`
	ReservedStock     int    `json:"reserved_stock"`
	Available         int    `json:"available"`
	MinimumStockLevel int    `json:"minimum_stock_level"`
	Status            string `json:"status"` // in_stock | low_stock | out_of_stock
}

// ReconciliationResultDTO resultado de reproducir el ledger de un producto.
type ReconciliationResultDTO struct {
	ProductID            string    `json:"product_id"`
	SKU                  string    `json:"sku"`
	StoredQuantity       int       `json:"stored_quantity"`
	ReplayedQuantity     int       `json:"replayed_quantity"`
	MovementCount        int       `json:"movement_count"`
	Drift                int       `json:"drift"` // stored - replayed
	ChainBreaks          int       `json:"chain_breaks"`
	StoredReserved       int       `json:"stored_reserved"`
	ActiveReserved       int       `json:"active_reserved"`
	ReservedExceedsStock bool      `json:"reserved_exceeds_stock"`
	CheckedAt            time.Time `json:"checked_at"`
}

// Consistent indica que el agregado coincide con el ledger y con las reservas activas.
func (r ReconciliationResultDTO) Consistent() bool {
	return r.Drift == 0 && r.ChainBreaks == 0 && r.StoredReserved == r.ActiveReserved && !r.ReservedExceedsStock
}

// LowStockItemDTO sugerencia de reposición para un producto en stock bajo o agotado.
type LowStockItemDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	Category           string          `json:"category"`
	StockQuantity      int             `json:"stock_quantity"`
	ReservedStock      int             `json:"reserved_stock"`
	Available          int             `json:"available"`
	MinimumStockLevel  int             `json:"minimum_stock_level"`
	Status             string          `json:"status"`
	SuggestedOrderQty  int             `json:"suggested_order_qty"`
	LastPurchasePrice  decimal.Decimal `json:"last_purchase_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * LastPurchasePrice
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`     // (precio - último costo) / precio
	Deficit            int             `json:"deficit"`              // minimum_stock_level - available
	Priority           int             `json:"priority"`             // 1 = más urgente
}

// StockEvent evento publicado tras confirmar un movimiento.
type StockEvent struct {
	EventID    string                `json:"event_id"`
	EventType  string                `json:"event_type"` // stock.movement.created
	Movement   StockMovementResponse `json:"movement"`
	Status     StockStatusResponse   `json:"status"`
	OccurredAt time.Time             `json:"occurred_at"`
}
