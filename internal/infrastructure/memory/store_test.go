package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: "p-1", SKU: "CAM-1", Name: "Cámara", StockQuantity: 5}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func TestRun_DescartaCambiosSiFalla(t *testing.T) {
	s := memory.NewStore(0, nil)
	p := seed(t, s)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(ctx context.Context, r inventory.Repos) error {
		require.NoError(t, r.Movements.Create(ctx, &entity.StockMovement{ID: "m1", ProductID: p.ID, QuantityChange: 1}))
		require.NoError(t, r.Products.UpdateStock(ctx, p.ID, 6, 0))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := s.Products().GetByID(context.Background(), p.ID)
	assert.Equal(t, 5, got.StockQuantity)
	n, _ := s.Movements().CountByProduct(context.Background(), p.ID)
	assert.Zero(t, n)
}

func TestRun_ConfirmaYAsignaSeq(t *testing.T) {
	s := memory.NewStore(0, nil)
	p := seed(t, s)

	err := s.Run(context.Background(), func(ctx context.Context, r inventory.Repos) error {
		for _, id := range []string{"m1", "m2"} {
			if err := r.Movements.Create(ctx, &entity.StockMovement{ID: id, ProductID: p.ID}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	movs, err := s.Movements().ListByProduct(context.Background(), p.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Less(t, movs[0].Seq, movs[1].Seq)
}

func TestUpdateStock_ReplicaCheckDeTabla(t *testing.T) {
	s := memory.NewStore(0, nil)
	p := seed(t, s)
	ctx := context.Background()

	assert.ErrorIs(t, s.Products().UpdateStock(ctx, p.ID, -1, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, s.Products().UpdateStock(ctx, p.ID, 2, 3), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, s.Products().UpdateStock(ctx, "nope", 1, 0), domain.ErrNotFound)
	assert.NoError(t, s.Products().UpdateStock(ctx, p.ID, 3, 3))
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	s := memory.NewStore(0, nil)
	seed(t, s)
	err := s.Products().Create(context.Background(), &entity.Product{ID: "p-2", SKU: "CAM-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestReservation_UnaActivaPorPar(t *testing.T) {
	s := memory.NewStore(0, nil)
	p := seed(t, s)
	ctx := context.Background()
	repo := s.Reservations()

	r1 := &entity.QuotationReservation{ID: "r1", QuotationID: "Q", ProductID: p.ID, Quantity: 1, Status: entity.ReservationReserved}
	require.NoError(t, repo.Create(ctx, r1))
	err := repo.Create(ctx, &entity.QuotationReservation{ID: "r2", QuotationID: "Q", ProductID: p.ID, Quantity: 1, Status: entity.ReservationReserved})
	assert.ErrorIs(t, err, domain.ErrConflict)

	r1.Status = entity.ReservationReleased
	require.NoError(t, repo.UpdateStatus(ctx, r1))
	require.NoError(t, repo.Create(ctx, &entity.QuotationReservation{ID: "r2", QuotationID: "Q", ProductID: p.ID, Quantity: 2, Status: entity.ReservationReserved}))

	sum, err := repo.SumActiveByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.NewStore(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Run(ctx, func(context.Context, inventory.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.False(t, called)
}
