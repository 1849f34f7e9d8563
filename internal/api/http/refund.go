package http

import (
	"fmt"
	"net/http"

	"stableride-backend/internal/domain"
)

type refundRequestBody struct {
	Reason string `json:"reason"`
}

type processRefundBody struct {
	AmountCents *int64 `json:"amount_cents,omitempty"`
}

func (h *Handler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req refundRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.refunds.RequestRefund(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("refund_requested")
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) RejectRefund(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := h.refunds.RejectRefund(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("refund_rejected")
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handler) ProcessRefund(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrFail(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req processRefundBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("invalid request body: %w", domain.ErrValidation))
		return
	}
	booking, err := h.refunds.ProcessRefund(r.Context(), actor, id, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	h.countEvent("refund_processed")
	writeJSON(w, http.StatusOK, booking)
}
