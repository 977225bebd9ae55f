package pix

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samvyt/rifa/internal/application/payment/pixgateway"
	"github.com/samvyt/rifa/internal/shared/logger"
)

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestMercadoPagoGateway_CreateCharge(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "txn_abc123", r.Header.Get("X-Idempotency-Key"))

		body := decodeBody(t, r)
		assert.Equal(t, 12.5, body["transaction_amount"])
		assert.Equal(t, "pix", body["payment_method_id"])
		assert.Equal(t, "txn_abc123", body["external_reference"])
		payer := body["payer"].(map[string]interface{})
		assert.Equal(t, "Maria", payer["first_name"])
		assert.Equal(t, "Souza", payer["last_name"])
		assert.Equal(t, "52998224725", payer["identification"].(map[string]interface{})["number"])

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"id":                 123456789,
			"status":             "pending",
			"date_of_expiration": "2026-03-01T09:15:00.000-03:00",
			"point_of_interaction": map[string]interface{}{
				"transaction_data": map[string]interface{}{
					"qr_code":        "00020126...6304ABCD",
					"qr_code_base64": "iVBORw0KGgo=",
				},
			},
		})
	}))
	defer server.Close()

	g := NewMercadoPagoGateway("token-123", server.URL, logger.NewNopLogger())
	charge, err := g.CreateCharge(context.Background(), newChargeRequest(expires))
	require.NoError(t, err)

	assert.Equal(t, "123456789", charge.PaymentID)
	assert.Equal(t, "00020126...6304ABCD", charge.Payload)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", charge.QRImage)
	assert.True(t, expires.Equal(charge.ExpiresAt))
	assert.Equal(t, pixgateway.StatusPending, charge.Status)
}

func TestMercadoPagoGateway_CheckStatusAndCancel(t *testing.T) {
	var cancelled atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/42", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": 42, "status": "approved"})
		case http.MethodPut:
			assert.Equal(t, "cancelled", decodeBody(t, r)["status"])
			cancelled.Store(true)
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": 42, "status": "cancelled"})
		}
	}))
	defer server.Close()

	g := NewMercadoPagoGateway("t", server.URL, logger.NewNopLogger())
	status, err := g.CheckStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, pixgateway.StatusApproved, status)

	require.NoError(t, g.CancelCharge(context.Background(), "42"))
	assert.True(t, cancelled.Load())
}

func TestMercadoPagoGateway_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid payer email"})
	}))
	defer server.Close()

	g := NewMercadoPagoGateway("t", server.URL, logger.NewNopLogger())
	_, err := g.CreateCharge(context.Background(), newChargeRequest(time.Time{}))

	var pe *ProviderError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "invalid payer email", pe.Message)
}

func TestMercadoPagoGateway_MissingPixData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]interface{}{"id": 1, "status": "pending"})
	}))
	defer server.Close()

	g := NewMercadoPagoGateway("t", server.URL, logger.NewNopLogger())
	_, err := g.CreateCharge(context.Background(), newChargeRequest(time.Time{}))
	assert.Error(t, err)
}

func TestAsaasGateway_CreateChargeWithNewCustomer(t *testing.T) {
	var customersCreated atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-xyz", r.Header.Get("access_token"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/customers":
			assert.Equal(t, "maria@example.com", r.URL.Query().Get("email"))
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
		case r.Method == http.MethodPost && r.URL.Path == "/customers":
			customersCreated.Add(1)
			body := decodeBody(t, r)
			assert.Equal(t, "52998224725", body["cpfCnpj"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "cus_001"})
		case r.Method == http.MethodPost && r.URL.Path == "/payments":
			body := decodeBody(t, r)
			assert.Equal(t, "cus_001", body["customer"])
			assert.Equal(t, "PIX", body["billingType"])
			assert.Equal(t, 12.5, body["value"])
			assert.Equal(t, "txn_abc123", body["externalReference"])
			assert.NotEmpty(t, body["dueDate"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "pay_001", "status": "PENDING"})
		case r.Method == http.MethodGet && r.URL.Path == "/payments/pay_001/pixQrCode":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"encodedImage":   "iVBORw0KGgo=",
				"payload":        "00020126...6304FFFF",
				"expirationDate": "2026-03-02 23:59:59",
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	g := NewAsaasGateway("key-xyz", server.URL, logger.NewNopLogger())
	charge, err := g.CreateCharge(context.Background(), newChargeRequest(time.Now().Add(15*time.Minute)))
	require.NoError(t, err)

	assert.Equal(t, int32(1), customersCreated.Load())
	assert.Equal(t, "pay_001", charge.PaymentID)
	assert.Equal(t, "00020126...6304FFFF", charge.Payload)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", charge.QRImage)
	assert.Equal(t, pixgateway.StatusPending, charge.Status)
}

func TestAsaasGateway_ReusesCustomerAndVoidsWithoutQR(t *testing.T) {
	var deleted atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/customers":
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": []interface{}{map[string]interface{}{"id": "cus_existing"}}})
		case r.Method == http.MethodPost && r.URL.Path == "/customers":
			t.Error("customer should not be created twice")
		case r.Method == http.MethodPost && r.URL.Path == "/payments":
			assert.Equal(t, "cus_existing", decodeBody(t, r)["customer"])
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "pay_002", "status": "PENDING"})
		case r.URL.Path == "/payments/pay_002/pixQrCode":
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"errors": []interface{}{map[string]interface{}{"code": "invalid_action", "description": "pix key not registered"}},
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/payments/pay_002":
			deleted.Store(true)
			writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
		}
	}))
	defer server.Close()

	g := NewAsaasGateway("k", server.URL, logger.NewNopLogger())
	_, err := g.CreateCharge(context.Background(), newChargeRequest(time.Now()))

	var pe *ProviderError
	require.True(t, stderrors.As(err, &pe))
	assert.Equal(t, "pix key not registered", pe.Message)
	assert.True(t, deleted.Load())
}

func TestAsaasGateway_StatusMapping(t *testing.T) {
	cases := map[string]pixgateway.Status{
		"PENDING":          pixgateway.StatusPending,
		"RECEIVED":         pixgateway.StatusApproved,
		"CONFIRMED":        pixgateway.StatusApproved,
		"RECEIVED_IN_CASH": pixgateway.StatusApproved,
		"OVERDUE":          pixgateway.StatusExpired,
		"REFUNDED":         pixgateway.StatusCancelled,
		"SOMETHING_NEW":    pixgateway.StatusPending,
	}
	for native, want := range cases {
		t.Run(native, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]interface{}{"id": "pay_1", "status": native})
			}))
			defer server.Close()

			g := NewAsaasGateway("k", server.URL, logger.NewNopLogger())
			got, err := g.CheckStatus(context.Background(), "pay_1")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestInfinitePayGateway_CreateChargeInCents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ip-key", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/transactions", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, float64(1250), body["amount"])
			assert.Equal(t, "pix", body["payment_method"])
			assert.Equal(t, "txn_abc123", body["order_id"])
			assert.Equal(t, "maria@example.com", body["customer"].(map[string]interface{})["email"])
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"id":     "ip_77",
				"status": "waiting",
				"pix":    map[string]interface{}{"qrcode": "00020126...6304AAAA", "qrcode_base64": "iVBO"},
			})
		case http.MethodGet:
			assert.Equal(t, "/transactions/ip_77", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]interface{}{"id": "ip_77", "status": "paid"})
		}
	}))
	defer server.Close()

	g := NewInfinitePayGateway("ip-key", server.URL, logger.NewNopLogger())
	charge, err := g.CreateCharge(context.Background(), newChargeRequest(time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "ip_77", charge.PaymentID)
	assert.Equal(t, pixgateway.StatusPending, charge.Status)

	status, err := g.CheckStatus(context.Background(), "ip_77")
	require.NoError(t, err)
	assert.Equal(t, pixgateway.StatusApproved, status)

	assert.NoError(t, g.CancelCharge(context.Background(), "ip_77"))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Ana Maria  de Souza ")
	assert.Equal(t, "Ana", first)
	assert.Equal(t, "Maria de Souza", last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
