package ports

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

// StockEventPublisher publica los movimientos confirmados (NATS, Kafka o no-op).
// Se invoca después del commit; un fallo se registra pero no revierte el movimiento.
type StockEventPublisher interface {
	Publish(ctx context.Context, event dto.StockEvent) error
	Close() error
}

// StatusCache cache de la vista derivada de stock por producto.
// Cada Invalidate avanza la generación del producto y Set solo guarda si la generación sigue
// siendo la que devolvió Get: una lectura anterior a un commit no queda en cache.
type StatusCache interface {
	// Get en un miss devuelve la generación vigente, que se pasa luego a Set.
	Get(ctx context.Context, productID string) (status *dto.StockStatusResponse, gen int64, hit bool, err error)
	Set(ctx context.Context, status *dto.StockStatusResponse, gen int64) (stored bool, err error)
	Invalidate(ctx context.Context, productID string) error
}

// MovementReportGenerator genera el reporte de auditoría (kardex) de un producto.
type MovementReportGenerator interface {
	GenerateMovementReport(ctx context.Context, product *entity.Product, movements []*entity.StockMovement) ([]byte, error)
}
