package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stableride-backend/internal/config"
	"stableride-backend/internal/integrations/payments"
)

func newClient(baseURL string) *payments.Client {
	return payments.NewClient(config.PaymentsConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	})
}

func TestClient_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/refunds", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "pay_abc123", req["payment_ref"])
			assert.NotEmpty(t, req["idempotency_key"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"refund_ref": "rf_789", "status": "processed"})
		}))
		defer srv.Close()

		ref, err := newClient(srv.URL).Refund(ctx, "pay_abc123", 120000)
		assert.NoError(t, err)
		assert.Equal(t, "rf_789", ref)
	})

	t.Run("Empty Reference Gets A Local One", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
		}))
		defer srv.Close()

		ref, err := newClient(srv.URL).Refund(ctx, "pay_abc123", 120000)
		assert.NoError(t, err)
		assert.NotEmpty(t, ref)
	})

	t.Run("Unknown Payment", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).Refund(ctx, "pay_gone", 500)
		assert.ErrorContains(t, err, "not found at gateway")
	})

	t.Run("Gateway Rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("amount exceeds charge"))
		}))
		defer srv.Close()

		_, err := newClient(srv.URL).Refund(ctx, "pay_abc123", 999999)
		assert.ErrorContains(t, err, "amount exceeds charge")
	})
}
