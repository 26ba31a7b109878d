package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/internal/domain"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/memory"
)

type fakeExtractor struct {
	draft *dto.InvoiceDraft
	err   error
	mime  string
}

func (f *fakeExtractor) ExtractPurchaseInvoice(ctx context.Context, _ []byte, mimeType string) (*dto.InvoiceDraft, error) {
	f.mime = mimeType
	if f.err != nil {
		return nil, f.err
	}
	return f.draft, nil
}

func TestExtractDraft_AsociaSKUYValidaTotales(t *testing.T) {
	store := memory.NewStore(0, nil)
	require.NoError(t, store.Products().Create(context.Background(),
		&entity.Product{ID: "p-cam", SKU: "CAM-4MP", Name: "Cámara 4MP"}))

	ext := &fakeExtractor{draft: &dto.InvoiceDraft{
		VendorName: "Distribuidora Seguridad",
		Items: []dto.InvoiceDraftItem{
			{SKU: "CAM-4MP", Quantity: 4, UnitCost: decimal.NewFromInt(90), LineTotal: decimal.NewFromInt(360)},
			{SKU: "HDD-X", Quantity: 1, UnitCost: decimal.NewFromInt(200), LineTotal: decimal.NewFromInt(250)},
			{Description: "Flete", Quantity: 1, UnitCost: decimal.NewFromInt(15)},
		},
	}}
	uc := usecase.NewInvoiceUseCase(ext, store.Products())

	draft, err := uc.ExtractDraft(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ext.mime)

	assert.True(t, draft.Items[0].Matched)
	assert.Equal(t, "p-cam", draft.Items[0].ProductID)
	assert.False(t, draft.Items[1].Matched)
	assert.True(t, decimal.NewFromInt(15).Equal(draft.Items[2].LineTotal), "el total de línea se completa")
	assert.True(t, decimal.NewFromInt(625).Equal(draft.Subtotal))
	assert.Len(t, draft.Warnings, 2, "total de línea inconsistente y SKU desconocido")
}

func TestExtractDraft_SubtotalNoCuadra(t *testing.T) {
	store := memory.NewStore(0, nil)
	ext := &fakeExtractor{draft: &dto.InvoiceDraft{
		Items:    []dto.InvoiceDraftItem{{Quantity: 2, UnitCost: decimal.NewFromInt(10)}},
		Subtotal: decimal.NewFromInt(50),
	}}
	draft, err := usecase.NewInvoiceUseCase(ext, store.Products()).
		ExtractDraft(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	require.Len(t, draft.Warnings, 1)
	assert.True(t, decimal.NewFromInt(50).Equal(draft.Subtotal), "se conserva el subtotal leído")
}

func TestExtractDraft_ValidaArchivo(t *testing.T) {
	store := memory.NewStore(0, nil)
	uc := usecase.NewInvoiceUseCase(&fakeExtractor{draft: &dto.InvoiceDraft{}}, store.Products())
	ctx := context.Background()

	_, err := uc.ExtractDraft(ctx, nil, "application/pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ExtractDraft(ctx, []byte("x"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ExtractDraft(ctx, make([]byte, usecase.MaxInvoiceSize+1), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractDraft_ErrorDelProveedor(t *testing.T) {
	store := memory.NewStore(0, nil)
	boom := errors.New("status 500")
	uc := usecase.NewInvoiceUseCase(&fakeExtractor{err: boom}, store.Products())
	_, err := uc.ExtractDraft(context.Background(), []byte("x"), "image/jpeg")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrTransient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc = usecase.NewInvoiceUseCase(&fakeExtractor{err: context.Canceled}, store.Products())
	_, err = uc.ExtractDraft(ctx, []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrTransient)
}
