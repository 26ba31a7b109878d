package entity

import "time"

// Tipos de acción del ledger de stock.
const (
	ActionPurchase          = "purchase"
	ActionSale              = "sale"
	ActionAdjustment        = "adjustment"
	ActionTransfer          = "transfer"
	ActionReturn            = "return"
	ActionQuotationReserved = "quotation_reserved"
	ActionQuotationReleased = "quotation_released"
)

// Tipos de referencia al documento que originó el movimiento.
const (
	ReferencePurchase   = "purchase"
	ReferenceOrder      = "order"
	ReferenceQuotation  = "quotation"
	ReferenceAdjustment = "stock_adjustment"
)

// StockMovement entrada inmutable del ledger. QuantityAfter = QuantityBefore + QuantityChange y nunca negativo.
// Seq lo asigna el store al insertar con el producto bloqueado y define el orden del ledger.
type StockMovement struct {
	ID             string
	Seq            int64
	ProductID      string
	ActionType     string
	QuantityChange int
	QuantityBefore int
	QuantityAfter  int
	Reason         string
	Notes          string
	ReferenceType  string
	ReferenceID    string
	UserID         string
	CreatedAt      time.Time
}

// IsValidAction indica si el tipo de acción pertenece al catálogo del ledger.
func IsValidAction(action string) bool {
	switch action {
	case ActionPurchase, ActionSale, ActionAdjustment, ActionTransfer, ActionReturn,
		ActionQuotationReserved, ActionQuotationReleased:
		return true
	}
	return false
}
