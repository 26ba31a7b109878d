package entity

import "time"

// Tipos de ajuste manual.
const (
	AdjustmentAdd    = "add"
	AdjustmentRemove = "remove"
)

// Motivos válidos de ajuste.
const (
	ReasonDamage       = "damage"
	ReasonLoss         = "loss"
	ReasonCorrection   = "correction"
	ReasonExpired      = "expired"
	ReasonFound        = "found"
	ReasonInitialStock = "initial_stock"
	ReasonOther        = "other"
)

// StockAdjustment corrección capturada por un operador. Siempre va pareada con un StockMovement.
type StockAdjustment struct {
	ID             string
	ProductID      string
	MovementID     string
	AdjustmentType string // add | remove
	Quantity       int    // siempre positivo; el signo lo da AdjustmentType
	Reason         string
	Notes          string
	SerialNumbers  []string
	UserID         string
	CreatedAt      time.Time
}

// IsValidAdjustmentReason valida el motivo contra la enumeración cerrada.
func IsValidAdjustmentReason(reason string) bool {
	switch reason {
	case ReasonDamage, ReasonLoss, ReasonCorrection, ReasonExpired, ReasonFound, ReasonInitialStock, ReasonOther:
		return true
	}
	return false
}
