package entity

import "time"

// Estados de una reserva. released y converted son terminales.
const (
	ReservationReserved  = "reserved"
	ReservationReleased  = "released"
	ReservationConverted = "converted" // liberada al convertirse en venta
)

// QuotationReservation stock retenido para una cotización sin descontar el stock físico.
type QuotationReservation struct {
	ID          string
	QuotationID string
	ProductID   string
	Quantity    int
	Status      string
	ReservedAt  time.Time
	ReleasedAt  *time.Time
}

// IsActive indica si la reserva sigue sumando en reserved_stock.
func (r *QuotationReservation) IsActive() bool {
	return r.Status == ReservationReserved
}
