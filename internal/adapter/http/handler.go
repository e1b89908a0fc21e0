package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adflow/internal/core/port"
	"adflow/internal/core/pricing"
)

// Handler is the inbound HTTP adapter consumed by the surrounding bot.
// It exposes quoting, payment requests and campaigns on a chi.Router.
type Handler struct {
	pricing   *pricing.Engine
	payments  port.PaymentUseCase
	campaigns port.CampaignUseCase
	logger    *slog.Logger
	router    chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(engine *pricing.Engine, payments port.PaymentUseCase, campaigns port.CampaignUseCase, logger *slog.Logger) *Handler {
	h := &Handler{pricing: engine, payments: payments, campaigns: campaigns, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quote", h.handleQuote)
		r.Post("/payments", h.handleCreatePayment)
		r.Get("/payments/{id}", h.handleGetPayment)
		r.Post("/payments/{id}/cancel", h.handleCancelPayment)
		r.Post("/payments/{id}/confirm", h.handleConfirmPayment)
		r.Post("/campaigns", h.handleActivateCampaign)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/campaigns", h.handleListCampaigns)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
