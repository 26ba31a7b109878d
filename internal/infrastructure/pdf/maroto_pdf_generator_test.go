package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
)

func TestGenerateMovementReport(t *testing.T) {
	p := &entity.Product{ID: "p1", SKU: "CAM-001", Name: "Cámara domo 4MP", Category: "camera",
		StockQuantity: 7, ReservedStock: 2, MinimumStockLevel: 3}
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	movs := []*entity.StockMovement{
		{Seq: 2, ActionType: entity.ActionSale, QuantityBefore: 10, QuantityChange: -3, QuantityAfter: 7,
			Reason: "direct_sale", ReferenceType: entity.ReferenceOrder, ReferenceID: "ORD-1", CreatedAt: base.Add(time.Hour)},
		{Seq: 1, ActionType: entity.ActionPurchase, QuantityBefore: 0, QuantityChange: 10, QuantityAfter: 10,
			Reason: "purchase_received", CreatedAt: base},
		{Seq: 3, ActionType: entity.ActionQuotationReserved, QuantityBefore: 7, QuantityAfter: 7,
			Notes: "cantidad reservada: 2", ReferenceType: entity.ReferenceQuotation, ReferenceID: "Q-1", CreatedAt: base.Add(2 * time.Hour)},
	}

	g := NewMarotoPDFGenerator("")
	out, err := g.GenerateMovementReport(context.Background(), p, movs)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// no reordena el slice del llamador
	assert.Equal(t, int64(2), movs[0].Seq)
}

func TestGenerateMovementReport_Empty(t *testing.T) {
	g := NewMarotoPDFGenerator("bodega")
	out, err := g.GenerateMovementReport(context.Background(), &entity.Product{ID: "p1", SKU: "X"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateMovementReport_NilProduct(t *testing.T) {
	_, err := NewMarotoPDFGenerator("").GenerateMovementReport(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "+5", signed(5))
	assert.Equal(t, "-2", signed(-2))
	assert.Equal(t, "0", signed(0))
	assert.Equal(t, "Reserva", actionLabel(entity.ActionQuotationReserved))
	assert.Equal(t, "otro", actionLabel("otro"))
	assert.Equal(t, "—", reference(&entity.StockMovement{}))
	assert.Equal(t, "order:\nORD-1", reference(&entity.StockMovement{ReferenceType: "order", ReferenceID: "ORD-1"}))
}
