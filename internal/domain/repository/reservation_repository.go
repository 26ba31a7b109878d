package repository

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// ReservationRepository persistencia de reservas de cotización.
// Los métodos Get/Find devuelven (nil, nil) cuando no hay coincidencia.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.QuotationReservation) error
	GetByID(ctx context.Context, id string) (*entity.QuotationReservation, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.QuotationReservation, error)
	// FindActiveForUpdate reserva activa (status=reserved) para el par cotización/producto, bloqueada.
	FindActiveForUpdate(ctx context.Context, quotationID, productID string) (*entity.QuotationReservation, error)
	// FindLatest última reserva del par en cualquier estado.
	FindLatest(ctx context.Context, quotationID, productID string) (*entity.QuotationReservation, error)
	ListActiveByQuotation(ctx context.Context, quotationID string) ([]*entity.QuotationReservation, error)
	// SumActiveByProduct suma de cantidades de reservas activas (conciliación de reserved_stock).
	SumActiveByProduct(ctx context.Context, productID string) (int, error)
	UpdateStatus(ctx context.Context, r *entity.QuotationReservation) error
}
