// Package publish provides Publisher implementations. Content and
// channel resolution belong to the surrounding bot; the webhook
// publisher hands the slot over to it, the log publisher stands in
// when no bot endpoint is configured.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Webhook delivers slots by POSTing them to the bot's publish
// endpoint. A non-2xx response is a publish failure and will be
// retried by the tracker within its per-channel budget.
type Webhook struct {
	http *http.Client
	url  string
}

// NewWebhook returns a publisher POSTing to url.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{http: &http.Client{Timeout: timeout}, url: url}
}

func (p *Webhook) Publish(ctx context.Context, channelID int64, campaignID string, slot int) error {
	body, err := json.Marshal(map[string]any{
		"channel_id":  channelID,
		"campaign_id": campaignID,
		"slot":        slot,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("publisher returned %s", res.Status)
	}
	return nil
}

// Log accepts every publish and logs it. Useful for local runs.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a publisher that logs deliveries.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (p *Log) Publish(_ context.Context, channelID int64, campaignID string, slot int) error {
	p.logger.Info("publish",
		slog.Int64("channel_id", channelID),
		slog.String("campaign_id", campaignID),
		slog.Int("slot", slot))
	return nil
}
