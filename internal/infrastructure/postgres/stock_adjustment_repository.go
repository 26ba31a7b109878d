package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo ajustes manuales sobre PostgreSQL.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

// Create inserta el ajuste junto a su movimiento (misma transacción).
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	serials := a.SerialNumbers
	if serials == nil {
		serials = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_adjustments (id, product_id, movement_id, adjustment_type, quantity, reason, notes,
			serial_numbers, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.ProductID, a.MovementID, a.AdjustmentType, a.Quantity, a.Reason, a.Notes,
		serials, a.UserID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// ListByProduct ajustes del producto, más recientes primero.
func (r *StockAdjustmentRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT id::text, product_id::text, movement_id::text, adjustment_type, quantity, reason, notes,
			serial_numbers, user_id, created_at
		FROM stock_adjustments
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(
			&a.ID, &a.ProductID, &a.MovementID, &a.AdjustmentType, &a.Quantity, &a.Reason, &a.Notes,
			&a.SerialNumbers, &a.UserID, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
