package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adflow/internal/config/configs"
	"adflow/internal/core/domain"
	"adflow/internal/core/port"
	"adflow/internal/core/schedule"
)

// ErrInvalidCampaignInput signals a caller error on activation.
var ErrInvalidCampaignInput = errors.New("invalid campaign input")

// ErrPaymentNotConfirmed is returned when activation references a
// payment request that is missing or not confirmed.
var ErrPaymentNotConfirmed = errors.New("payment request not confirmed")

// CampaignTracker advances paid campaigns through their schedule. It
// implements port.CampaignUseCase. Within one campaign slots resolve
// strictly in order; campaigns themselves are independent and advance
// in parallel.
type CampaignTracker struct {
	repo      port.CampaignRepository
	payments  port.PaymentRepository
	publisher port.Publisher
	notifier  port.Notifier
	logger    *slog.Logger
	cfg       configs.Campaigns
}

// NewCampaignTracker wires the progression tracker.
func NewCampaignTracker(repo port.CampaignRepository, payments port.PaymentRepository, publisher port.Publisher, notifier port.Notifier, logger *slog.Logger, cfg configs.Campaigns) *CampaignTracker {
	return &CampaignTracker{repo: repo, payments: payments, publisher: publisher, notifier: notifier, logger: logger, cfg: cfg}
}

// Activate creates a campaign funded by a confirmed payment request.
// The unique payment link in the repository enforces at-most-once
// activation per request.
func (t *CampaignTracker) Activate(ctx context.Context, in port.ActivateCampaignReq) (*domain.Campaign, error) {
	if in.DurationDays < 1 || in.PostsPerDay < 1 || in.PostsPerDay > 12 || len(in.ChannelIDs) == 0 {
		return nil, ErrInvalidCampaignInput
	}

	payment, err := t.payments.Get(ctx, in.PaymentRequestID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.Status != domain.PaymentConfirmed {
		return nil, ErrPaymentNotConfirmed
	}

	now := time.Now().UTC()
	c := &domain.Campaign{
		ID:               uuid.NewString(),
		OwnerID:          in.OwnerID,
		PaymentRequestID: in.PaymentRequestID,
		ChannelIDs:       in.ChannelIDs,
		TotalPosts:       in.DurationDays * in.PostsPerDay * len(in.ChannelIDs),
		PostsPerDay:      in.PostsPerDay,
		ScheduleSlots:    schedule.Slots(in.PostsPerDay),
		StartAt:          now,
		EndAt:            now.AddDate(0, 0, in.DurationDays),
		Status:           domain.CampaignActive,
	}
	if err = t.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	t.logger.Info("campaign activated",
		slog.String("campaign_id", c.ID),
		slog.Int("total_posts", c.TotalPosts),
		slog.Int("posts_per_day", c.PostsPerDay))
	return c, nil
}

// GetCampaign returns a campaign by id, or nil when unknown.
func (t *CampaignTracker) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return t.repo.Get(ctx, id)
}

// ListByOwner returns an owner's campaigns, newest first.
func (t *CampaignTracker) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error) {
	return t.repo.ListByOwner(ctx, ownerID)
}

// PublishTick advances every active campaign once, draining all due
// slots in schedule order. Campaigns fan out with a bounded limit so a
// stalled publisher affects only its own campaign.
func (t *CampaignTracker) PublishTick(ctx context.Context) port.TickStats {
	var stats port.TickStats

	active, err := t.repo.ListActive(ctx)
	if err != nil {
		t.logger.Error("list active campaigns", slog.Any("error", err))
		stats.Errors++
		return stats
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Concurrency)
	results := make([]port.TickStats, len(active))
	for i := range active {
		i := i
		stats.Scanned++
		g.Go(func() error {
			results[i] = t.advance(gctx, active[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		stats.Published += res.Published
		stats.Completed += res.Completed
		stats.Skipped += res.Skipped
		stats.Errors += res.Errors
	}
	return stats
}

// advance resolves due slots for one campaign. A slot resolves when
// every channel is either delivered or has exhausted its retry budget;
// an unresolved slot blocks later slots of the same campaign until the
// next tick, preserving cadence order.
func (t *CampaignTracker) advance(ctx context.Context, c domain.Campaign) port.TickStats {
	var stats port.TickStats

	for {
		now := time.Now().UTC()
		if c.PostsDelivered >= c.TotalPosts {
			t.complete(ctx, &c, &stats)
			return stats
		}
		if now.After(c.EndAt) {
			// Duration is a hard ceiling: remaining slots are dropped.
			t.logger.Info("campaign reached end date",
				slog.String("campaign_id", c.ID),
				slog.Int("delivered", c.PostsDelivered),
				slog.Int("total", c.TotalPosts))
			t.complete(ctx, &c, &stats)
			return stats
		}
		k := c.NextSlot
		if k >= c.SlotCount() {
			// Every slot resolved; short of total only through skips.
			t.complete(ctx, &c, &stats)
			return stats
		}
		if now.Before(c.SlotTime(k)) {
			return stats
		}

		resolved, delivered := t.publishSlot(ctx, &c, k, &stats)
		next := k
		if resolved {
			next = k + 1
		}
		if delivered > 0 || resolved {
			if err := t.repo.RecordProgress(ctx, c.ID, delivered, next); err != nil {
				t.logger.Error("record progress",
					slog.String("campaign_id", c.ID), slog.Any("error", err))
				stats.Errors++
				return stats
			}
		}
		c.PostsDelivered += delivered
		c.NextSlot = next
		if !resolved {
			// Retry the same slot next tick; later slots must wait.
			return stats
		}
	}
}

// publishSlot attempts delivery to every channel of slot k that has no
// terminal outcome yet. Channel failures are isolated: a failing
// channel is retried on later ticks up to the configured budget and
// then skipped, without blocking the other channels.
func (t *CampaignTracker) publishSlot(ctx context.Context, c *domain.Campaign, k int, stats *port.TickStats) (resolved bool, delivered int) {
	prior, err := t.repo.GetDeliveries(ctx, c.ID, k)
	if err != nil {
		t.logger.Error("load deliveries",
			slog.String("campaign_id", c.ID), slog.Any("error", err))
		stats.Errors++
		return false, 0
	}

	resolved = true
	for _, ch := range c.ChannelIDs {
		if d, ok := prior[ch]; ok && d.Status != "" {
			continue
		}

		pubErr := t.publisher.Publish(ctx, ch, c.ID, k)
		d := domain.Delivery{CampaignID: c.ID, SlotIndex: k, ChannelID: ch}
		if pubErr == nil {
			d.Status = domain.DeliveryDelivered
		} else if prior[ch].Attempts+1 >= t.cfg.PublishRetries {
			d.Status = domain.DeliverySkipped
			stats.Skipped++
			t.logger.Warn("publish retries exhausted, channel skipped",
				slog.String("campaign_id", c.ID),
				slog.Int("slot", k),
				slog.Int64("channel_id", ch),
				slog.Any("error", pubErr))
		} else {
			resolved = false
			t.logger.Warn("publish failed, will retry",
				slog.String("campaign_id", c.ID),
				slog.Int("slot", k),
				slog.Int64("channel_id", ch),
				slog.Any("error", pubErr))
		}

		if err = t.repo.UpsertDelivery(ctx, d); err != nil {
			t.logger.Error("record delivery",
				slog.String("campaign_id", c.ID), slog.Any("error", err))
			stats.Errors++
			resolved = false
			continue
		}
		if d.Status == domain.DeliveryDelivered {
			delivered++
			stats.Published++
		}
	}
	return resolved, delivered
}

// complete transitions the campaign to completed and emits the event.
// A concurrent tick finishing first makes this a no-op.
func (t *CampaignTracker) complete(ctx context.Context, c *domain.Campaign, stats *port.TickStats) {
	err := t.repo.Complete(ctx, c.ID)
	if errors.Is(err, port.ErrNotPending) {
		return
	}
	if err != nil {
		t.logger.Error("complete campaign",
			slog.String("campaign_id", c.ID), slog.Any("error", err))
		stats.Errors++
		return
	}
	stats.Completed++
	t.logger.Info("campaign completed",
		slog.String("campaign_id", c.ID),
		slog.Int("delivered", c.PostsDelivered),
		slog.Int("total", c.TotalPosts))
	t.notifier.CampaignCompleted(ctx, domain.CampaignCompletedEvent{
		CampaignID:     c.ID,
		OwnerID:        c.OwnerID,
		PostsDelivered: c.PostsDelivered,
		TotalPosts:     c.TotalPosts,
	})
}

// Run drives the publish loop until the context is cancelled.
func (t *CampaignTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := t.PublishTick(ctx)
			if res.Published > 0 || res.Completed > 0 || res.Errors > 0 {
				t.logger.Debug("publish tick",
					slog.Int("published", res.Published),
					slog.Int("completed", res.Completed),
					slog.Int("skipped", res.Skipped),
					slog.Int("errors", res.Errors))
			}
		}
	}
}
