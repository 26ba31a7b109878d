package inventory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/pdf"
)

func TestMovementReport_Kardex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "KDX-1", 2)
	f.purchase(t, p.ID, 8)
	_, err := f.uc.Reserve(ctx, inventory.ReserveInput{QuotationID: "Q1", ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	uc := inventory.NewMovementReportUseCase(f.store.Products(), f.store.Movements(), pdf.NewMarotoPDFGenerator("bodega"))
	out, err := uc.Generate(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = uc.Generate(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
