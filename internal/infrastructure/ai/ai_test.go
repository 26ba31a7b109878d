package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		`{"a":1}`:                            `{"a":1}`,
		"```json\n{\"a\":1}\n```":            `{"a":1}`,
		"Aquí está la factura: {\"a\":1} ok": `{"a":1}`,
		"sin json":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractJSON(in), in)
	}
}

func TestParseInvoiceText_MontosFlexibles(t *testing.T) {
	text := "```json\n" + `{
		"vendor_name": " Distribuidora CCTV ",
		"currency": "cop",
		"items": [
			{"sku": "CAM-1", "quantity": "4", "unit_cost": "85000.50", "line_total": 342002},
			{"sku": "X", "quantity": 0, "unit_cost": 10},
			{"sku": "CBL", "quantity": 2.6, "unit_cost": "", "line_total": null}
		],
		"subtotal": "342002",
		"tax": 0,
		"total": ""
	}` + "\n```"

	draft, err := parseInvoiceText("test", text)
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora CCTV", draft.VendorName)
	assert.Equal(t, "COP", draft.Currency)
	require.Len(t, draft.Items, 2)
	assert.Equal(t, 4, draft.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("85000.50").Equal(draft.Items[0].UnitCost))
	assert.Equal(t, 3, draft.Items[1].Quantity)
	assert.True(t, draft.Items[1].UnitCost.IsZero())
	assert.True(t, draft.Total.IsZero())
	assert.Len(t, draft.Warnings, 2, "línea sin cantidad y cantidad fraccionaria")
}

func TestParseInvoiceText_SinJSON(t *testing.T) {
	_, err := parseInvoiceText("test", "no puedo leer el documento")
	assert.Error(t, err)
}

func TestAnthropicService_Extract(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{
				"type": "text",
				"text": `{"vendor_name":"Proveedor","items":[{"sku":"DVR-8","quantity":1,"unit_cost":300,"line_total":300}],"subtotal":300}`,
			}},
		})
	}))
	defer srv.Close()

	svc := NewAnthropicService("k-test", "claude-test").WithBaseURL(srv.URL)
	draft, err := svc.ExtractPurchaseInvoice(context.Background(), []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "Proveedor", draft.VendorName)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "DVR-8", draft.Items[0].SKU)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "document", got.Messages[0].Content[0].Type)
	assert.Equal(t, "application/pdf", got.Messages[0].Content[0].Source.MediaType)
}

func TestAnthropicService_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropicService("k", "m").WithBaseURL(srv.URL).
		ExtractPurchaseInvoice(context.Background(), []byte{1}, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicService_SinAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "m").ExtractPurchaseInvoice(context.Background(), []byte{1}, "image/png")
	assert.Error(t, err)
}
