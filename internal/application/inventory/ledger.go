package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/ports"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// DefaultOpTimeout límite por operación del ledger cuando no se configura otro.
const DefaultOpTimeout = 5 * time.Second

// StockLedgerUseCase es el único escritor de stock_quantity y reserved_stock.
// Cada operación mutante corre en una transacción que bloquea la fila del producto (SELECT FOR UPDATE),
// agrega exactamente los movimientos que le corresponden y actualiza los agregados.
type StockLedgerUseCase struct {
	txRunner     TxRunner
	products     repository.ProductRepository
	movements    repository.StockMovementRepository
	reservations repository.ReservationRepository
	cache        ports.StatusCache
	publisher    ports.StockEventPublisher
	log          *logger.Logger
	opTimeout    time.Duration
	now          func() time.Time
}

// LedgerDeps dependencias del caso de uso. Cache y Publisher son opcionales.
type LedgerDeps struct {
	TxRunner     TxRunner
	Products     repository.ProductRepository
	Movements    repository.StockMovementRepository
	Reservations repository.ReservationRepository
	Cache        ports.StatusCache
	Publisher    ports.StockEventPublisher
	Logger       *logger.Logger
	OpTimeout    time.Duration
	Clock        func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(deps LedgerDeps) *StockLedgerUseCase {
	uc := &StockLedgerUseCase{
		txRunner:     deps.TxRunner,
		products:     deps.Products,
		movements:    deps.Movements,
		reservations: deps.Reservations,
		cache:        deps.Cache,
		publisher:    deps.Publisher,
		log:          deps.Logger,
		opTimeout:    deps.OpTimeout,
		now:          deps.Clock,
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.opTimeout <= 0 {
		uc.opTimeout = DefaultOpTimeout
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// movementDraft datos de un movimiento a registrar sobre un producto ya bloqueado.
type movementDraft struct {
	action  string
	change  int
	reason  string
	notes   string
	refType string
	refID   string
	userID  string
}

// appendLocked agrega un movimiento al ledger y actualiza los agregados del producto.
// p debe venir de GetForUpdate dentro de la misma transacción; se actualiza en memoria.
func (uc *StockLedgerUseCase) appendLocked(ctx context.Context, repos Repos, p *entity.Product, d movementDraft, now time.Time) (*entity.StockMovement, error) {
	after, err := ledger.Apply(p.StockQuantity, d.change)
	if err != nil {
		return nil, err
	}
	// reserved_stock <= stock_quantity es invariante duro: una salida no puede comerse stock reservado.
	if d.change < 0 && after < p.ReservedStock {
		return nil, domain.ErrInsufficientAvailable
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		ActionType:     d.action,
		QuantityChange: d.change,
		QuantityBefore: p.StockQuantity,
		QuantityAfter:  after,
		Reason:         d.reason,
		Notes:          d.notes,
		ReferenceType:  d.refType,
		ReferenceID:    d.refID,
		UserID:         d.userID,
		CreatedAt:      now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	p.StockQuantity = after
	p.UpdatedAt = now
	if err := repos.Products.UpdateStock(ctx, p.ID, p.StockQuantity, p.ReservedStock); err != nil {
		return nil, err
	}
	return mov, nil
}

// lockProduct bloquea la fila del producto o devuelve ErrNotFound.
func lockProduct(ctx context.Context, repos Repos, productID string) (*entity.Product, error) {
	p, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// execute aplica el timeout de operación y corre fn en una transacción.
// Un deadline vencido se reporta como ErrTransient: el resultado puede ser desconocido
// y el caller debe volver a consultar el ledger antes de reintentar.
func (uc *StockLedgerUseCase) execute(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	ctx, cancel := context.WithTimeout(ctx, uc.opTimeout)
	defer cancel()

	err := uc.txRunner.Run(ctx, fn)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTransient) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}

// afterCommit registra, invalida la cache y publica el evento de un movimiento ya confirmado.
// Los fallos aquí no afectan el resultado de la operación.
func (uc *StockLedgerUseCase) afterCommit(ctx context.Context, p *entity.Product, movs ...*entity.StockMovement) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	status := toStatus(p)
	for _, m := range movs {
		uc.log.Info().
			Str("product_id", m.ProductID).
			Str("action_type", m.ActionType).
			Int("quantity_change", m.QuantityChange).
			Int("quantity_before", m.QuantityBefore).
			Int("quantity_after", m.QuantityAfter).
			Int("reserved_stock", p.ReservedStock).
			Str("reference_id", m.ReferenceID).
			Msg("movimiento de stock registrado")
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, p.ID); err != nil {
			uc.log.Warn().Err(err).Str("product_id", p.ID).Msg("invalidar cache de estado")
		}
	}
	if uc.publisher == nil {
		return
	}
	for _, m := range movs {
		evt := dto.StockEvent{
			EventID:    uuid.New().String(),
			EventType:  "stock.movement.created",
			Movement:   dto.NewStockMovementResponse(m),
			Status:     *status,
			OccurredAt: m.CreatedAt,
		}
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			uc.log.Warn().Err(err).Str("movement_id", m.ID).Msg("publicar evento de stock")
		}
	}
}

func toStatus(p *entity.Product) *dto.StockStatusResponse {
	return &dto.StockStatusResponse{
		ProductID:         p.ID,
		StockQuantity:     p.StockQuantity,
		ReservedStock:     p.ReservedStock,
		Available:         ledger.Available(p),
		MinimumStockLevel: p.MinimumStockLevel,
		Status:            ledger.Status(p),
	}
}

// clone copia el producto para exponerlo fuera de la transacción.
func clone(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}
