package repository

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// StockMovementRepository puerto del ledger. Solo inserción y lectura: no hay update ni delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos en orden de Seq (más antiguo primero).
	// limit <= 0 devuelve todos (reproducción del ledger).
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
