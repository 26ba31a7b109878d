package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id::text, quotation_id, product_id::text, quantity, status, reserved_at, released_at`

// ReservationRepo reservas de cotización sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

// Create inserta una reserva activa. El índice único parcial impide dos activas para el mismo par.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.QuotationReservation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotation_reservations (id, quotation_id, product_id, quantity, status, reserved_at, released_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.QuotationID, res.ProductID, res.Quantity, res.Status, res.ReservedAt, res.ReleasedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reserva activa duplicada", domain.ErrConflict)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.QuotationReservation, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM quotation_reservations WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene y bloquea una reserva.
func (r *ReservationRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.QuotationReservation, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM quotation_reservations WHERE id = $1 FOR UPDATE`, id)
}

// FindActiveForUpdate reserva activa del par cotización/producto, bloqueada.
func (r *ReservationRepo) FindActiveForUpdate(ctx context.Context, quotationID, productID string) (*entity.QuotationReservation, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM quotation_reservations
		WHERE quotation_id = $1 AND product_id = $2 AND status = 'reserved' FOR UPDATE`, quotationID, productID)
}

// FindLatest última reserva del par en cualquier estado.
func (r *ReservationRepo) FindLatest(ctx context.Context, quotationID, productID string) (*entity.QuotationReservation, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM quotation_reservations
		WHERE quotation_id = $1 AND product_id = $2 ORDER BY reserved_at DESC LIMIT 1`, quotationID, productID)
}

// ListActiveByQuotation reservas activas de una cotización.
func (r *ReservationRepo) ListActiveByQuotation(ctx context.Context, quotationID string) ([]*entity.QuotationReservation, error) {
	rows, err := r.q.Query(ctx, `SELECT `+reservationColumns+` FROM quotation_reservations
		WHERE quotation_id = $1 AND status = 'reserved' ORDER BY product_id`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()
	var out []*entity.QuotationReservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// SumActiveByProduct suma de cantidades reservadas activas.
func (r *ReservationRepo) SumActiveByProduct(ctx context.Context, productID string) (int, error) {
	if !isUUID(productID) {
		return 0, nil
	}
	var n int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0)::int FROM quotation_reservations
		WHERE product_id = $1 AND status = 'reserved'`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sum reservations: %w", err)
	}
	return n, nil
}

// UpdateStatus guarda el estado y released_at.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, res *entity.QuotationReservation) error {
	tag, err := r.q.Exec(ctx, `UPDATE quotation_reservations SET status = $2, released_at = $3 WHERE id = $1`,
		res.ID, res.Status, res.ReleasedAt)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReservationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.QuotationReservation, error) {
	res, err := scanReservation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func scanReservation(row pgx.Row) (*entity.QuotationReservation, error) {
	var res entity.QuotationReservation
	if err := row.Scan(&res.ID, &res.QuotationID, &res.ProductID, &res.Quantity, &res.Status, &res.ReservedAt, &res.ReleasedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
