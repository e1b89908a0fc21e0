package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"adflow/internal/core/pricing"
)

func testHandler() *Handler {
	engine := pricing.NewEngine(pricing.Params{
		UnitPrice: 500,
		Rates:     map[string]float64{"TON": 0.02, "CREDITS": 1},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(engine, nil, nil, logger)
}

func TestHandleQuote(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote",
		strings.NewReader(`{"duration_days": 3, "channel_count": 2}`))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		PostsPerDay     int     `json:"posts_per_day"`
		TotalPosts      int     `json:"total_posts"`
		DiscountPercent float64 `json:"discount_percent"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 2, body.PostsPerDay)
	require.Equal(t, 12, body.TotalPosts)
	require.InDelta(t, 2.4, body.DiscountPercent, 1e-9)
}

func TestHandleQuoteBadInput(t *testing.T) {
	h := testHandler()
	for _, payload := range []string{
		`{"duration_days": 0, "channel_count": 1}`,
		`{"duration_days": 5, "channel_count": 0}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		h.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, payload)
	}
}

func TestHandleListCampaignsRequiresOwner(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns", nil)
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
