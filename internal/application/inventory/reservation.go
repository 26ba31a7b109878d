package inventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
)

// ReserveInput retención de stock para una cotización.
type ReserveInput struct {
	QuotationID string
	ProductID   string
	Quantity    int
	UserID      string
}

// ReservationResult reserva resultante. Movement es nil cuando la operación no cambió nada (liberación repetida).
type ReservationResult struct {
	Reservation *entity.QuotationReservation
	Product     *entity.Product
	Movement    *entity.StockMovement
}

// ConversionResult venta generada a partir de una reserva.
type ConversionResult struct {
	Reservation *entity.QuotationReservation
	Product     *entity.Product
	Release     *entity.StockMovement
	Sale        *entity.StockMovement
}

// Reserve aparta unidades disponibles para una cotización. No cambia el stock físico.
func (uc *StockLedgerUseCase) Reserve(ctx context.Context, in ReserveInput) (*ReservationResult, error) {
	if in.QuotationID == "" || in.ProductID == "" {
		return nil, fmt.Errorf("%w: quotation_id y product_id son obligatorios", domain.ErrInvalidInput)
	}
	if err := ledger.CheckQuantity(in.Quantity); err != nil {
		return nil, err
	}

	var res ReservationResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, err := lockProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		active, err := repos.Reservations.FindActiveForUpdate(ctx, in.QuotationID, in.ProductID)
		if err != nil {
			return err
		}
		if active != nil {
			return fmt.Errorf("%w: la cotización %s ya tiene una reserva activa de este producto", domain.ErrConflict, in.QuotationID)
		}
		if in.Quantity > ledger.Available(p) {
			return domain.ErrInsufficientAvailable
		}

		now := uc.now()
		r := &entity.QuotationReservation{
			ID:          uuid.New().String(),
			QuotationID: in.QuotationID,
			ProductID:   in.ProductID,
			Quantity:    in.Quantity,
			Status:      entity.ReservationReserved,
			ReservedAt:  now,
		}
		if err := repos.Reservations.Create(ctx, r); err != nil {
			return err
		}
		p.ReservedStock += in.Quantity
		mov, err := uc.appendLocked(ctx, repos, p, movementDraft{
			action:  entity.ActionQuotationReserved,
			reason:  "quotation_reserved",
			notes:   reservationNote(in.Quantity),
			refType: entity.ReferenceQuotation,
			refID:   in.QuotationID,
			userID:  in.UserID,
		}, now)
		if err != nil {
			return err
		}
		res = ReservationResult{Reservation: r, Product: clone(p), Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, res.Product, res.Movement)
	return &res, nil
}

// Release libera la reserva activa del par cotización/producto. Repetirla es un no-op exitoso.
func (uc *StockLedgerUseCase) Release(ctx context.Context, quotationID, productID, userID string) (*ReservationResult, error) {
	if quotationID == "" || productID == "" {
		return nil, fmt.Errorf("%w: quotation_id y product_id son obligatorios", domain.ErrInvalidInput)
	}

	var res ReservationResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		r, err := repos.Reservations.FindActiveForUpdate(ctx, quotationID, productID)
		if err != nil {
			return err
		}
		if r == nil {
			latest, err := repos.Reservations.FindLatest(ctx, quotationID, productID)
			if err != nil {
				return err
			}
			if latest == nil {
				return domain.ErrNotFound
			}
			res = ReservationResult{Reservation: latest, Product: clone(p)}
			return nil
		}
		mov, err := uc.releaseLocked(ctx, repos, p, r, entity.ReservationReleased, userID, uc.now())
		if err != nil {
			return err
		}
		res = ReservationResult{Reservation: r, Product: clone(p), Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Movement != nil {
		uc.afterCommit(ctx, res.Product, res.Movement)
	}
	return &res, nil
}

// ReleaseByID libera una reserva por su id. Repetirla es un no-op exitoso.
func (uc *StockLedgerUseCase) ReleaseByID(ctx context.Context, reservationID, userID string) (*ReservationResult, error) {
	if reservationID == "" {
		return nil, fmt.Errorf("%w: id de reserva obligatorio", domain.ErrInvalidInput)
	}

	var res ReservationResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, r, err := lockReservation(ctx, repos, reservationID)
		if err != nil {
			return err
		}
		if !r.IsActive() {
			res = ReservationResult{Reservation: r, Product: clone(p)}
			return nil
		}
		mov, err := uc.releaseLocked(ctx, repos, p, r, entity.ReservationReleased, userID, uc.now())
		if err != nil {
			return err
		}
		res = ReservationResult{Reservation: r, Product: clone(p), Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Movement != nil {
		uc.afterCommit(ctx, res.Product, res.Movement)
	}
	return &res, nil
}

// ReleaseQuotation libera todas las reservas activas de una cotización (cotización anulada o vencida)
// en una sola transacción. Sin reservas activas devuelve una lista vacía.
func (uc *StockLedgerUseCase) ReleaseQuotation(ctx context.Context, quotationID, userID string) ([]ReservationResult, error) {
	if quotationID == "" {
		return nil, fmt.Errorf("%w: quotation_id es obligatorio", domain.ErrInvalidInput)
	}

	var out []ReservationResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		out = out[:0]
		active, err := repos.Reservations.ListActiveByQuotation(ctx, quotationID)
		if err != nil {
			return err
		}
		// orden fijo de bloqueo por producto para no cruzarse con otras transacciones
		sort.Slice(active, func(i, j int) bool { return active[i].ProductID < active[j].ProductID })

		now := uc.now()
		for _, a := range active {
			p, err := lockProduct(ctx, repos, a.ProductID)
			if err != nil {
				return err
			}
			r, err := repos.Reservations.GetByIDForUpdate(ctx, a.ID)
			if err != nil {
				return err
			}
			if r == nil || !r.IsActive() {
				continue
			}
			mov, err := uc.releaseLocked(ctx, repos, p, r, entity.ReservationReleased, userID, now)
			if err != nil {
				return err
			}
			out = append(out, ReservationResult{Reservation: r, Product: clone(p), Movement: mov})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, r := range out {
		uc.afterCommit(ctx, r.Product, r.Movement)
	}
	if out == nil {
		out = []ReservationResult{}
	}
	return out, nil
}

// ConvertToSale libera la reserva (estado converted) y descuenta el stock físico en una sola transacción.
// Solo aplica a reservas activas; una reserva ya liberada o convertida devuelve ErrConflict.
func (uc *StockLedgerUseCase) ConvertToSale(ctx context.Context, reservationID, orderID, userID string) (*ConversionResult, error) {
	if reservationID == "" {
		return nil, fmt.Errorf("%w: id de reserva obligatorio", domain.ErrInvalidInput)
	}

	var res ConversionResult
	err := uc.execute(ctx, func(ctx context.Context, repos Repos) error {
		p, r, err := lockReservation(ctx, repos, reservationID)
		if err != nil {
			return err
		}
		if !r.IsActive() {
			return fmt.Errorf("%w: la reserva está en estado %s", domain.ErrConflict, r.Status)
		}
		now := uc.now()
		release, err := uc.releaseLocked(ctx, repos, p, r, entity.ReservationConverted, userID, now)
		if err != nil {
			return err
		}
		refType, refID := entity.ReferenceQuotation, r.QuotationID
		if orderID != "" {
			refType, refID = entity.ReferenceOrder, orderID
		}
		sale, err := uc.appendLocked(ctx, repos, p, movementDraft{
			action:  entity.ActionSale,
			change:  -r.Quantity,
			reason:  "quotation_converted",
			notes:   "cotización " + r.QuotationID,
			refType: refType,
			refID:   refID,
			userID:  userID,
		}, now)
		if err != nil {
			return err
		}
		res = ConversionResult{Reservation: r, Product: clone(p), Release: release, Sale: sale}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterCommit(ctx, res.Product, res.Release, res.Sale)
	return &res, nil
}

// GetReservation consulta una reserva sin bloquearla.
func (uc *StockLedgerUseCase) GetReservation(ctx context.Context, id string) (*entity.QuotationReservation, error) {
	r, err := uc.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// lockReservation bloquea primero el producto y luego la reserva (mismo orden que Reserve/Release).
func lockReservation(ctx context.Context, repos Repos, reservationID string) (*entity.Product, *entity.QuotationReservation, error) {
	peek, err := repos.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if peek == nil {
		return nil, nil, domain.ErrNotFound
	}
	p, err := lockProduct(ctx, repos, peek.ProductID)
	if err != nil {
		return nil, nil, err
	}
	r, err := repos.Reservations.GetByIDForUpdate(ctx, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, nil, domain.ErrNotFound
	}
	return p, r, nil
}

// releaseLocked pasa una reserva activa a un estado terminal y descuenta reserved_stock.
func (uc *StockLedgerUseCase) releaseLocked(ctx context.Context, repos Repos, p *entity.Product, r *entity.QuotationReservation, status, userID string, now time.Time) (*entity.StockMovement, error) {
	r.Status = status
	r.ReleasedAt = &now
	if err := repos.Reservations.UpdateStatus(ctx, r); err != nil {
		return nil, err
	}
	p.ReservedStock -= r.Quantity
	if p.ReservedStock < 0 {
		uc.log.Warn().
			Str("product_id", p.ID).
			Str("reservation_id", r.ID).
			Int("reserved_stock", p.ReservedStock).
			Msg("reserved_stock negativo al liberar; se ajusta a 0")
		p.ReservedStock = 0
	}
	return uc.appendLocked(ctx, repos, p, movementDraft{
		action:  entity.ActionQuotationReleased,
		reason:  "quotation_" + status,
		notes:   reservationNote(r.Quantity),
		refType: entity.ReferenceQuotation,
		refID:   r.QuotationID,
		userID:  userID,
	}, now)
}

func reservationNote(qty int) string {
	return "cantidad reservada: " + strconv.Itoa(qty)
}
