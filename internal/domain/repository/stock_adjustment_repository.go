package repository

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// StockAdjustmentRepository persistencia de ajustes manuales (pareados con un movimiento).
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
