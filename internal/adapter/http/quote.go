package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"adflow/internal/core/pricing"
)

// handleQuote prices a prospective campaign. Invalid duration or
// channel count produce HTTP 400; the function is otherwise total.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DurationDays int `json:"duration_days"`
		ChannelCount int `json:"channel_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	quote, err := h.pricing.Quote(req.DurationDays, req.ChannelCount)
	if errors.Is(err, pricing.ErrInvalidQuoteInput) {
		http.Error(w, "duration_days and channel_count must be at least 1", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"duration_days":    quote.DurationDays,
		"channel_count":    quote.ChannelCount,
		"posts_per_day":    quote.PostsPerDay,
		"total_posts":      quote.TotalPosts,
		"discount_percent": quote.DiscountPercent,
		"base_price":       quote.BasePrice,
		"final_price":      quote.FinalPrice,
		"unit_prices":      quote.UnitPrices,
	})
}
