package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adflow/internal/adapter/usecase"
	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

type campaignResponse struct {
	ID               string    `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	PaymentRequestID string    `json:"payment_request_id"`
	ChannelIDs       []int64   `json:"channel_ids"`
	TotalPosts       int       `json:"total_posts"`
	PostsPerDay      int       `json:"posts_per_day"`
	ScheduleSlots    []string  `json:"schedule_slots"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	PostsDelivered   int       `json:"posts_delivered"`
	Status           string    `json:"status"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	slots := make([]string, len(c.ScheduleSlots))
	for i, s := range c.ScheduleSlots {
		slots[i] = time.Unix(0, 0).UTC().Add(s).Format("15:04")
	}
	return campaignResponse{
		ID:               c.ID,
		OwnerID:          c.OwnerID,
		PaymentRequestID: c.PaymentRequestID,
		ChannelIDs:       c.ChannelIDs,
		TotalPosts:       c.TotalPosts,
		PostsPerDay:      c.PostsPerDay,
		ScheduleSlots:    slots,
		StartAt:          c.StartAt,
		EndAt:            c.EndAt,
		PostsDelivered:   c.PostsDelivered,
		Status:           string(c.Status),
	}
}

// handleActivateCampaign starts a campaign funded by a confirmed
// payment request. A request that is not confirmed, or one that
// already funded a campaign, is rejected.
func (h *Handler) handleActivateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentRequestID string  `json:"payment_request_id"`
		OwnerID          int64   `json:"owner_id"`
		DurationDays     int     `json:"duration_days"`
		PostsPerDay      int     `json:"posts_per_day"`
		ChannelIDs       []int64 `json:"channel_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	c, err := h.campaigns.Activate(r.Context(), port.ActivateCampaignReq{
		PaymentRequestID: req.PaymentRequestID,
		OwnerID:          req.OwnerID,
		DurationDays:     req.DurationDays,
		PostsPerDay:      req.PostsPerDay,
		ChannelIDs:       req.ChannelIDs,
	})
	switch {
	case errors.Is(err, usecase.ErrInvalidCampaignInput):
		http.Error(w, "invalid campaign parameters", http.StatusBadRequest)
		return
	case errors.Is(err, usecase.ErrPaymentNotConfirmed):
		http.Error(w, "payment request not confirmed", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("activate campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCampaignResponse(c))
}

// handleGetCampaign returns a campaign by id.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.campaigns.GetCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("get campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.NotFound(w, r)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(c))
}

// handleListCampaigns returns an owner's campaigns, newest first. The
// owner_id query parameter is required.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(r.URL.Query().Get("owner_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid owner_id", http.StatusBadRequest)
		return
	}
	list, err := h.campaigns.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("list campaigns error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]campaignResponse, len(list))
	for i := range list {
		out[i] = toCampaignResponse(&list[i])
	}
	h.writeJSON(w, http.StatusOK, out)
}
