package inventory

import (
	"context"

	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Products     repository.ProductRepository
	Movements    repository.StockMovementRepository
	Adjustments  repository.StockAdjustmentRepository
	Reservations repository.ReservationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del ledger: el movimiento y los agregados del producto se escriben juntos o no se escriben.
// Una implementación puede reintentar fn ante conflictos de concurrencia, así que fn no debe tener
// efectos fuera de los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
