package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository using pgxpool.
// Progress updates are guarded by the active status and written with
// monotonic counters so concurrent ticks cannot regress a campaign.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, owner_id, payment_request_id, channel_ids, total_posts, posts_per_day,
schedule_slots, start_at, end_at, next_slot, posts_delivered, status, created_at, updated_at`

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var (
		c       domain.Campaign
		slotSec []int64
	)
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.PaymentRequestID,
		&c.ChannelIDs,
		&c.TotalPosts,
		&c.PostsPerDay,
		&slotSec,
		&c.StartAt,
		&c.EndAt,
		&c.NextSlot,
		&c.PostsDelivered,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	c.ScheduleSlots = make([]time.Duration, len(slotSec))
	for i, s := range slotSec {
		c.ScheduleSlots[i] = time.Duration(s) * time.Second
	}
	return c, nil
}

// Create stores a new campaign. The unique payment_request_id column
// enforces the 1:1 link to the funding payment.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	slotSec := make([]int64, len(c.ScheduleSlots))
	for i, s := range c.ScheduleSlots {
		slotSec[i] = int64(s / time.Second)
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO campaigns
(id, owner_id, payment_request_id, channel_ids, total_posts, posts_per_day, schedule_slots,
 start_at, end_at, next_slot, posts_delivered, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		c.ID, c.OwnerID, c.PaymentRequestID, c.ChannelIDs, c.TotalPosts, c.PostsPerDay, slotSec,
		c.StartAt, c.EndAt, c.NextSlot, c.PostsDelivered, c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

// Get returns a campaign by id, or nil when unknown.
func (r *CampaignRepository) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns an owner's campaigns, newest first.
func (r *CampaignRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		return scanCampaign(row)
	})
}

// ListActive returns all active campaigns, oldest first.
func (r *CampaignRepository) ListActive(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE status = 'active' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		return scanCampaign(row)
	})
}

// GetDeliveries returns the delivery rows of one slot keyed by channel.
func (r *CampaignRepository) GetDeliveries(ctx context.Context, campaignID string, slot int) (map[int64]domain.Delivery, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT campaign_id, slot_index, channel_id, attempts, status, updated_at
FROM campaign_deliveries WHERE campaign_id = $1 AND slot_index = $2`, campaignID, slot)
	if err != nil {
		return nil, err
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Delivery, error) {
		var d domain.Delivery
		err := row.Scan(&d.CampaignID, &d.SlotIndex, &d.ChannelID, &d.Attempts, &d.Status, &d.UpdatedAt)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.Delivery, len(list))
	for _, d := range list {
		out[d.ChannelID] = d
	}
	return out, nil
}

// UpsertDelivery records one publish attempt for a channel in a slot,
// incrementing the persisted attempt counter.
func (r *CampaignRepository) UpsertDelivery(ctx context.Context, d domain.Delivery) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO campaign_deliveries
(campaign_id, slot_index, channel_id, attempts, status, updated_at)
VALUES ($1,$2,$3,1,$4,now())
ON CONFLICT (campaign_id, slot_index, channel_id)
DO UPDATE SET attempts = campaign_deliveries.attempts + 1, status = EXCLUDED.status, updated_at = now()`,
		d.CampaignID, d.SlotIndex, d.ChannelID, d.Status)
	return err
}

// RecordProgress adds delivered posts and advances the slot cursor.
// The guarded increment keeps posts_delivered monotonic and capped by
// the CHECK constraint on the table.
func (r *CampaignRepository) RecordProgress(ctx context.Context, campaignID string, delivered int, nextSlot int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET posts_delivered = posts_delivered + $2, next_slot = GREATEST(next_slot, $3), updated_at = now()
WHERE id = $1 AND status = 'active'`, campaignID, delivered, nextSlot)
	return err
}

// Complete transitions an active campaign to completed. ErrNotPending
// when the campaign is already terminal.
func (r *CampaignRepository) Complete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE campaigns SET status = 'completed', updated_at = now()
WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotPending
	}
	return nil
}
