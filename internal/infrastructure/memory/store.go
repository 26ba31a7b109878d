// Package memory implementa el almacenamiento del ledger en memoria (DB_DRIVER=memory).
// Sirve para desarrollo local y para las pruebas de casos de uso y handlers.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/pkg/logger"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products     map[string]*entity.Product
	skus         map[string]string // sku -> id
	movements    map[string][]*entity.StockMovement
	adjustments  map[string][]*entity.StockAdjustment
	reservations map[string]*entity.QuotationReservation
	seq          int64
}

func newState() *state {
	return &state{
		products:     map[string]*entity.Product{},
		skus:         map[string]string{},
		movements:    map[string][]*entity.StockMovement{},
		adjustments:  map[string][]*entity.StockAdjustment{},
		reservations: map[string]*entity.QuotationReservation{},
	}
}

// clone copia el estado para una transacción. Movimientos y ajustes son inmutables: basta copiar los slices.
func (s *state) clone() *state {
	c := &state{
		products:     make(map[string]*entity.Product, len(s.products)),
		skus:         make(map[string]string, len(s.skus)),
		movements:    make(map[string][]*entity.StockMovement, len(s.movements)),
		adjustments:  make(map[string][]*entity.StockAdjustment, len(s.adjustments)),
		reservations: make(map[string]*entity.QuotationReservation, len(s.reservations)),
		seq:          s.seq,
	}
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.skus {
		c.skus[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = append([]*entity.StockMovement(nil), v...)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = append([]*entity.StockAdjustment(nil), v...)
	}
	for k, v := range s.reservations {
		c.reservations[k] = copyReservation(v)
	}
	return c
}

// Store guarda todo el estado detrás de un mutex. Run serializa las escrituras y trabaja sobre
// una copia: si el callback falla, la copia se descarta y no queda rastro.
type Store struct {
	mu         sync.Mutex
	st         *state
	maxRetries int
	log        *logger.Logger

	// conflicts simula fallos de serialización en los próximos intentos (pruebas).
	conflicts int
}

// NewStore crea un almacenamiento vacío.
func NewStore(maxRetries int, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{st: newState(), maxRetries: maxRetries, log: log}
}

// InjectConflicts hace que los próximos n intentos de transacción se aborten como conflicto
// después de ejecutar el callback.
func (s *Store) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	for attempt := 0; ; attempt++ {
		err := s.runOnce(ctx, fn)
		if err != errConflict {
			return err
		}
		if attempt >= s.maxRetries {
			return fmt.Errorf("%w: reintentos agotados", domain.ErrConflict)
		}
		s.log.Warn().Int("attempt", attempt+1).Msg("transacción abortada; reintentando")
	}
}

var errConflict = fmt.Errorf("%w: conflicto simulado", domain.ErrConflict)

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin transaction: %w", domain.ErrTransient, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.st.clone()
	if err := fn(ctx, s.reposFor(staged)); err != nil {
		return err
	}
	if s.conflicts > 0 {
		s.conflicts--
		return errConflict
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", domain.ErrTransient, err)
	}
	s.st = staged
	return nil
}

func (s *Store) reposFor(st *state) inventory.Repos {
	v := view{store: s, tx: st}
	return inventory.Repos{
		Products:     &ProductRepo{v},
		Movements:    &StockMovementRepo{v},
		Adjustments:  &StockAdjustmentRepo{v},
		Reservations: &ReservationRepo{v},
	}
}

// Products repositorio fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{view{store: s}} }

// Movements repositorio fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{view{store: s}} }

// Adjustments repositorio fuera de transacción.
func (s *Store) Adjustments() *StockAdjustmentRepo { return &StockAdjustmentRepo{view{store: s}} }

// Reservations repositorio fuera de transacción.
func (s *Store) Reservations() *ReservationRepo { return &ReservationRepo{view{store: s}} }

// view da acceso al estado: el staged de la transacción o el confirmado bajo el mutex.
type view struct {
	store *Store
	tx    *state
}

func (v view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	fn(v.store.st)
}

// write fuera de transacción se aplica directo al estado confirmado (una sola sentencia).
func (v view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.Specification != nil {
		cp.Specification = append([]byte(nil), p.Specification...)
	}
	return &cp
}

func copyReservation(r *entity.QuotationReservation) *entity.QuotationReservation {
	cp := *r
	if r.ReleasedAt != nil {
		t := *r.ReleasedAt
		cp.ReleasedAt = &t
	}
	return &cp
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	return &cp
}
