// Package notify provides a slog-backed Notifier. The embedding bot
// substitutes its own implementation to message users; this one keeps
// the core observable when run standalone.
package notify

import (
	"context"
	"log/slog"

	"adflow/internal/core/domain"
)

// LogNotifier logs every core event at info level.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier writing to logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) PaymentConfirmed(_ context.Context, ev domain.PaymentConfirmedEvent) {
	n.logger.Info("event: payment confirmed",
		slog.String("request_id", ev.RequestID),
		slog.Int64("owner_id", ev.OwnerID),
		slog.String("tx_hash", ev.TxHash))
}

func (n *LogNotifier) PaymentExpired(_ context.Context, ev domain.PaymentExpiredEvent) {
	n.logger.Info("event: payment expired",
		slog.String("request_id", ev.RequestID),
		slog.Int64("owner_id", ev.OwnerID))
}

func (n *LogNotifier) CampaignCompleted(_ context.Context, ev domain.CampaignCompletedEvent) {
	n.logger.Info("event: campaign completed",
		slog.String("campaign_id", ev.CampaignID),
		slog.Int64("owner_id", ev.OwnerID),
		slog.Int("delivered", ev.PostsDelivered),
		slog.Int("total", ev.TotalPosts))
}
