package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cctv-stock-api/internal/application/dto"
	"github.com/jhoicas/cctv-stock-api/internal/application/inventory"
	"github.com/jhoicas/cctv-stock-api/internal/application/usecase"
	"github.com/jhoicas/cctv-stock-api/internal/domain/entity"
	"github.com/jhoicas/cctv-stock-api/internal/domain/ledger"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/memory"
	"github.com/jhoicas/cctv-stock-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/cctv-stock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/cctv-stock-api/pkg/jwt"
)

type api struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore(3, nil)
	ledgerUC := inventory.NewStockLedgerUseCase(inventory.LedgerDeps{
		TxRunner:     store,
		Products:     store.Products(),
		Movements:    store.Movements(),
		Reservations: store.Reservations(),
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		Ledger:      ledgerUC,
		LowStock:    inventory.NewLowStockUseCase(store.Products(), 0),
		Reconcile:   inventory.NewReconcileUseCase(store, store.Products(), nil, 0),
		Report:      inventory.NewMovementReportUseCase(store.Products(), store.Movements(), pdf.NewMarotoPDFGenerator("")),
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
		ServiceName: "cctv-stock-test",
	})
	return &api{app: app, store: store}
}

func (a *api) product(t *testing.T, sku string, minimum int) string {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:                uuid.New().String(),
		SKU:               sku,
		Name:              "Cámara " + sku,
		Category:          "camera",
		Price:             decimal.NewFromInt(250),
		MinimumStockLevel: minimum,
		ReorderQuantity:   10,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, a.store.Products().Create(context.Background(), p))
	return p.ID
}

func (a *api) do(t *testing.T, method, path, role string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (a *api) purchase(t *testing.T, productID string, qty int) {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/stock/purchase", pkgjwt.RoleBodeguero, dto.ReceivePurchaseRequest{
		ProductID: productID,
		Quantity:  qty,
		UnitCost:  decimal.NewFromInt(100),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	a := newAPI(t)
	resp, body := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cctv-stock-test")
}

func TestStock_CompraRegistraMovimiento(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-01", 5)

	resp, body := a.do(t, http.MethodPost, "/api/stock/purchase", pkgjwt.RoleBodeguero, dto.ReceivePurchaseRequest{
		ProductID:   id,
		Quantity:    20,
		UnitCost:    decimal.NewFromInt(120),
		ReferenceID: "OC-77",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	mov := decode[dto.StockMovementResponse](t, body)
	assert.Equal(t, entity.ActionPurchase, mov.ActionType)
	assert.Equal(t, 20, mov.QuantityChange)
	assert.Equal(t, 0, mov.QuantityBefore)
	assert.Equal(t, 20, mov.QuantityAfter)
	assert.Equal(t, "OC-77", mov.ReferenceID)
	assert.Equal(t, testUserID, mov.UserID)
}

func TestStock_CantidadCero_Retorna400(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-02", 0)

	resp, body := a.do(t, http.MethodPost, "/api/stock/purchase", pkgjwt.RoleAdmin, dto.ReceivePurchaseRequest{
		ProductID: id,
		Quantity:  0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_QUANTITY")
}

func TestStock_CantidadFueraDeInteger_Retorna400(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-BIG", 0)

	resp, body := a.do(t, http.MethodPost, "/api/stock/adjust", pkgjwt.RoleBodeguero, dto.AdjustStockRequest{
		ProductID: id,
		Type:      entity.AdjustmentAdd,
		Quantity:  ledger.MaxQuantity + 1,
		Reason:    "found",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_QUANTITY")
}

func TestStock_ProductoInexistente_Retorna404(t *testing.T) {
	a := newAPI(t)
	resp, body := a.do(t, http.MethodPost, "/api/stock/sale", pkgjwt.RoleVendedor, dto.StockOutRequest{
		ProductID: uuid.New().String(),
		Quantity:  1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestStock_VendedorNoPuedeAjustar(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-03", 0)

	resp, _ := a.do(t, http.MethodPost, "/api/stock/adjust", pkgjwt.RoleVendedor, dto.AdjustStockRequest{
		ProductID: id,
		Type:      entity.AdjustmentAdd,
		Quantity:  3,
		Reason:    "found",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStock_SinToken_Retorna401(t *testing.T) {
	a := newAPI(t)
	resp, _ := a.do(t, http.MethodGet, "/api/stock/low-stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReservations_ReservaYLiberacionIdempotente(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "NVR-16", 0)
	a.purchase(t, id, 10)

	resp, body := a.do(t, http.MethodPost, "/api/reservations", pkgjwt.RoleVendedor, dto.ReserveRequest{
		QuotationID: "COT-1",
		ProductID:   id,
		Quantity:    4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	res := decode[dto.ReservationResponse](t, body)
	assert.Equal(t, entity.ReservationReserved, res.Status)

	resp, body = a.do(t, http.MethodGet, "/api/products/"+id+"/status", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.StockStatusResponse](t, body)
	assert.Equal(t, 10, st.StockQuantity)
	assert.Equal(t, 4, st.ReservedStock)
	assert.Equal(t, 6, st.Available)

	// liberar dos veces: la segunda es un no-op sin error
	for i := 0; i < 2; i++ {
		resp, body = a.do(t, http.MethodPost, "/api/reservations/"+res.ID+"/release", pkgjwt.RoleVendedor, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, entity.ReservationReleased, decode[dto.ReservationResponse](t, body).Status)
	}

	resp, body = a.do(t, http.MethodGet, "/api/products/"+id+"/status", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.StockStatusResponse](t, body).ReservedStock)
}

func TestReservations_DisponibleInsuficiente_Retorna409(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "DVR-08", 0)
	a.purchase(t, id, 5)

	resp, _ := a.do(t, http.MethodPost, "/api/reservations", pkgjwt.RoleVendedor, dto.ReserveRequest{
		QuotationID: "COT-A", ProductID: id, Quantity: 4,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := a.do(t, http.MethodPost, "/api/reservations", pkgjwt.RoleVendedor, dto.ReserveRequest{
		QuotationID: "COT-B", ProductID: id, Quantity: 2,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_AVAILABLE")

	// la venta directa tampoco puede tomar stock reservado
	resp, body = a.do(t, http.MethodPost, "/api/stock/sale", pkgjwt.RoleVendedor, dto.StockOutRequest{
		ProductID: id, Quantity: 2,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "INSUFFICIENT_AVAILABLE")
}

func TestReservations_ConvertirAVenta(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "HDD-2T", 0)
	a.purchase(t, id, 8)

	_, body := a.do(t, http.MethodPost, "/api/reservations", pkgjwt.RoleAdmin, dto.ReserveRequest{
		QuotationID: "COT-9", ProductID: id, Quantity: 3,
	})
	res := decode[dto.ReservationResponse](t, body)

	resp, body := a.do(t, http.MethodPost, "/api/reservations/"+res.ID+"/convert", pkgjwt.RoleVendedor,
		dto.ConvertReservationRequest{ReferenceID: "PED-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sale := decode[dto.StockMovementResponse](t, body)
	assert.Equal(t, entity.ActionSale, sale.ActionType)
	assert.Equal(t, -3, sale.QuantityChange)
	assert.Equal(t, 5, sale.QuantityAfter)

	// una reserva ya convertida no se convierte otra vez
	resp, body = a.do(t, http.MethodPost, "/api/reservations/"+res.ID+"/convert", pkgjwt.RoleVendedor, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "CONFLICT")
}

func TestReservations_LiberarSinReserva_Retorna404(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAB-305", 0)

	resp, _ := a.do(t, http.MethodPost, "/api/reservations/release", pkgjwt.RoleVendedor, dto.ReleaseRequest{
		QuotationID: "COT-NADA", ProductID: id,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_MovimientosPaginados(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "PSU-12V", 0)
	a.purchase(t, id, 4)
	a.purchase(t, id, 6)

	resp, body := a.do(t, http.MethodGet, "/api/products/"+id+"/movements?limit=1", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	list := decode[dto.MovementListResponse](t, body)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, 1, list.Page.Limit)
	require.Len(t, list.Movements, 1)
	assert.Equal(t, 4, list.Movements[0].QuantityAfter, "el más antiguo primero")
}

func TestProducts_KardexPDF(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-PDF", 0)
	a.purchase(t, id, 2)

	resp, body := a.do(t, http.MethodGet, "/api/products/"+id+"/movements/report", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestStock_ReconcileSoloAdmin(t *testing.T) {
	a := newAPI(t)
	id := a.product(t, "CAM-REC", 0)
	a.purchase(t, id, 3)

	resp, _ := a.do(t, http.MethodGet, "/api/stock/reconcile", pkgjwt.RoleBodeguero, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := a.do(t, http.MethodGet, "/api/stock/reconcile?product_id="+id, pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	results := decode[[]dto.ReconciliationResultDTO](t, body)
	require.Len(t, results, 1)
	assert.True(t, results[0].Consistent())
	assert.Equal(t, 3, results[0].ReplayedQuantity)
}

func TestStock_LowStock(t *testing.T) {
	a := newAPI(t)
	a.product(t, "CAM-LOW", 5)
	full := a.product(t, "CAM-FULL", 1)
	a.purchase(t, full, 10)

	resp, body := a.do(t, http.MethodGet, "/api/stock/low-stock", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Total int                   `json:"total"`
		Items []dto.LowStockItemDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "CAM-LOW", out.Items[0].SKU)
}
