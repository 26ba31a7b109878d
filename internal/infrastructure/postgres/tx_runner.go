package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

const defaultRetryBackoff = 20 * time.Millisecond

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con repos atados a la tx.
// Conflictos de serialización/deadlock y fallos al abrir la transacción se reintentan
// repitiendo el callback completo (lectura, cálculo y escritura).
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, backoff: defaultRetryBackoff, log: log}
}

// retryable marca errores que dejan la base sin cambios y permiten repetir el intento.
type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// Run ejecuta fn en una transacción; Commit si fn devuelve nil, Rollback en otro caso.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.runOnce(ctx, fn)
		var retry retryable
		if !errors.As(err, &retry) {
			return err
		}
		err = retry.err
		if attempt >= r.maxRetries {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("transacción abortada; reintentando")

		wait := time.Duration(attempt+1) * r.backoff
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", domain.ErrTransient, ctx.Err())
		case <-time.After(wait):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: begin transaction: %w", domain.ErrTransient, err)
		}
		return retryable{fmt.Errorf("%w: begin transaction: %w", domain.ErrTransient, err)}
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	repos := inventory.Repos{
		Products:     NewProductRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		Adjustments:  NewStockAdjustmentRepository(tx),
		Reservations: NewReservationRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		if isConflict(err) {
			return retryable{fmt.Errorf("%w: %w", domain.ErrConflict, err)}
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		// La base confirmó que abortó: se puede repetir sin riesgo de duplicar.
		if isConflict(err) {
			return retryable{fmt.Errorf("%w: commit: %w", domain.ErrConflict, err)}
		}
		return fmt.Errorf("%w: commit transaction (resultado desconocido): %w", domain.ErrTransient, err)
	}
	return nil
}
