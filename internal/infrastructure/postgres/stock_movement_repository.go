package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de movimientos sobre PostgreSQL. Solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. seq y created_at los asigna la base (reloj del servidor, no el de
// la instancia) y se devuelven en movement.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, action_type, quantity_change, quantity_before, quantity_after,
			reason, notes, reference_type, reference_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, clock_timestamp())
		RETURNING seq, created_at`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.ActionType, m.QuantityChange, m.QuantityBefore, m.QuantityAfter,
		m.Reason, m.Notes, m.ReferenceType, m.ReferenceID, m.UserID,
	).Scan(&m.Seq, &m.CreatedAt)
	if err != nil {
		if isInvalidQuantity(err) {
			return fmt.Errorf("%w: insert stock movement: %v", domain.ErrInvalidQuantity, err)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos en orden de seq. limit <= 0 devuelve todos.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	query := `
		SELECT id::text, seq, product_id::text, action_type, quantity_change, quantity_before, quantity_after,
			reason, notes, reference_type, reference_id, user_id, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY seq`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.Seq, &m.ProductID, &m.ActionType, &m.QuantityChange, &m.QuantityBefore, &m.QuantityAfter,
			&m.Reason, &m.Notes, &m.ReferenceType, &m.ReferenceID, &m.UserID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CountByProduct total de movimientos del producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	if !isUUID(productID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}
