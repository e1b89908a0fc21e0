package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adflow/internal/adapter/usecase"
	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

type paymentResponse struct {
	ID                 string    `json:"id"`
	OwnerID            int64     `json:"owner_id"`
	CorrelationCode    string    `json:"correlation_code"`
	SettlementCurrency string    `json:"settlement_currency"`
	ExpectedAmount     int64     `json:"expected_amount"`
	DestinationAddress string    `json:"destination_address,omitempty"`
	MatchedTxHash      string    `json:"matched_tx_hash,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `json:"expires_at"`
}

func toPaymentResponse(p *domain.PaymentRequest) paymentResponse {
	return paymentResponse{
		ID:                 p.ID,
		OwnerID:            p.OwnerID,
		CorrelationCode:    p.CorrelationCode,
		SettlementCurrency: p.SettlementCurrency,
		ExpectedAmount:     p.ExpectedAmount,
		DestinationAddress: p.DestinationAddress,
		MatchedTxHash:      p.MatchedTxHash,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		ExpiresAt:          p.ExpiresAt,
	}
}

// handleCreatePayment registers a pending payment expectation for the
// chosen settlement currency and returns the correlation code the
// payer must embed in the transaction memo.
func (h *Handler) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID            int64  `json:"owner_id"`
		SettlementCurrency string `json:"settlement_currency"`
		ExpectedAmount     int64  `json:"expected_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	created, err := h.payments.CreateRequest(r.Context(), port.CreatePaymentReq{
		OwnerID:            req.OwnerID,
		SettlementCurrency: req.SettlementCurrency,
		ExpectedAmount:     req.ExpectedAmount,
	})
	if errors.Is(err, usecase.ErrInvalidPaymentInput) {
		http.Error(w, "owner_id, settlement_currency and a positive expected_amount are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("create payment error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, toPaymentResponse(created))
}

// handleGetPayment returns a payment request by id.
func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("get payment error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.NotFound(w, r)
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentResponse(p))
}

// handleCancelPayment aborts a pending request. Cancelling a settled
// or expired request returns HTTP 409.
func (h *Handler) handleCancelPayment(w http.ResponseWriter, r *http.Request) {
	err := h.payments.CancelRequest(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, port.ErrNotPending) {
		http.Error(w, "request is not pending", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("cancel payment error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleConfirmPayment settles a credit-currency request after the bot
// deducted the user's internal balance.
func (h *Handler) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := h.payments.ConfirmRequest(r.Context(), chi.URLParam(r, "id"), req.Reference)
	if errors.Is(err, port.ErrNotPending) {
		http.Error(w, "request is not pending", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.Error("confirm payment error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
