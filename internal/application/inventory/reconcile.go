package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
	"github.com/jhoicas/cctv-stock-api/internal/domain/repository"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

const (
	reconcilePageSize    = 200
	reconcileConcurrency = 4
)

// ReconcileUseCase reproduce el ledger de cada producto y lo compara con los agregados guardados.
// Solo reporta: nunca corrige stock_quantity.
type ReconcileUseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	log       *logger.Logger
	opTimeout time.Duration
	now       func() time.Time
}

// NewReconcileUseCase construye el caso de uso de conciliación.
func NewReconcileUseCase(txRunner TxRunner, products repository.ProductRepository, log *logger.Logger, opTimeout time.Duration) *ReconcileUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}
	return &ReconcileUseCase{txRunner: txRunner, products: products, log: log, opTimeout: opTimeout, now: time.Now}
}

// ReconcileProduct concilia un producto. La fila queda bloqueada mientras se reproduce el ledger
// para que ningún movimiento concurrente altere la comparación.
func (uc *ReconcileUseCase) ReconcileProduct(ctx context.Context, productID string) (*dto.ReconciliationResultDTO, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opTimeout)
	defer cancel()

	var res dto.ReconciliationResultDTO
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		p, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		movs, err := repos.Movements.ListByProduct(ctx, p.ID, 0, 0)
		if err != nil {
			return err
		}
		active, err := repos.Reservations.SumActiveByProduct(ctx, p.ID)
		if err != nil {
			return err
		}
		res = compare(p, ledger.Replay(movs), active, uc.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.report(res)
	return &res, nil
}

// ReconcileAll concilia todo el catálogo con concurrencia acotada. Devuelve un resultado por producto.
func (uc *ReconcileUseCase) ReconcileAll(ctx context.Context) ([]dto.ReconciliationResultDTO, error) {
	var (
		mu      sync.Mutex
		results []dto.ReconciliationResultDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for offset := 0; ; offset += reconcilePageSize {
		page, err := uc.products.List(gctx, reconcilePageSize, offset)
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		for _, p := range page {
			id := p.ID
			g.Go(func() error {
				r, err := uc.ReconcileProduct(gctx, id)
				if err != nil {
					// producto eliminado entre el listado y la conciliación
					if errors.Is(err, domain.ErrNotFound) {
						return nil
					}
					return err
				}
				mu.Lock()
				results = append(results, *r)
				mu.Unlock()
				return nil
			})
		}
		if len(page) < reconcilePageSize {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drifted := 0
	for _, r := range results {
		if !r.Consistent() {
			drifted++
		}
	}
	uc.log.Info().Int("products", len(results)).Int("inconsistent", drifted).Msg("conciliación completa")
	if results == nil {
		results = []dto.ReconciliationResultDTO{}
	}
	return results, nil
}

// RunPeriodic ejecuta ReconcileAll cada interval hasta que ctx se cancele. interval <= 0 no hace nada.
func (uc *ReconcileUseCase) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.ReconcileAll(ctx); err != nil && ctx.Err() == nil {
				uc.log.Error().Err(err).Msg("conciliación periódica")
			}
		}
	}
}

func (uc *ReconcileUseCase) report(r dto.ReconciliationResultDTO) {
	if r.Consistent() {
		return
	}
	uc.log.Warn().
		Str("product_id", r.ProductID).
		Str("sku", r.SKU).
		Int("stored_quantity", r.StoredQuantity).
		Int("replayed_quantity", r.ReplayedQuantity).
		Int("drift", r.Drift).
		Int("chain_breaks", r.ChainBreaks).
		Int("stored_reserved", r.StoredReserved).
		Int("active_reserved", r.ActiveReserved).
		Bool("reserved_exceeds_stock", r.ReservedExceedsStock).
		Msg("el agregado no coincide con el ledger")
}

func compare(p *entity.Product, replay ledger.ReplayResult, activeReserved int, now time.Time) dto.ReconciliationResultDTO {
	return dto.ReconciliationResultDTO{
		ProductID:            p.ID,
		SKU:                  p.SKU,
		StoredQuantity:       p.StockQuantity,
		ReplayedQuantity:     replay.Quantity,
		MovementCount:        replay.Count,
		Drift:                p.StockQuantity - replay.Quantity,
		ChainBreaks:          replay.ChainBreaks,
		StoredReserved:       p.ReservedStock,
		ActiveReserved:       activeReserved,
		ReservedExceedsStock: p.ReservedStock > p.StockQuantity,
		CheckedAt:            now,
	}
}
