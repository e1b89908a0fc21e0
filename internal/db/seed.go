package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo data: a confirmed payment request funding an
// active three-day campaign across two channels, and one pending
// request awaiting payment.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	now := time.Now().UTC()

	confirmedID := uuid.NewString()
	_, err := pool.Exec(ctx, `INSERT INTO payment_requests
(id, owner_id, correlation_code, settlement_currency, expected_amount, destination_address,
 matched_tx_hash, status, created_at, expires_at, updated_at)
VALUES ($1, 1001, 'SEEDPAY2', 'TON', 120000, 'EQDemoPlatformWallet', 'demo-tx-hash',
        'confirmed', $2, $3, $2) ON CONFLICT DO NOTHING`,
		confirmedID, now.Add(-time.Hour), now.Add(-40*time.Minute))
	if err != nil {
		return fmt.Errorf("seed confirmed payment: %w", err)
	}

	campaignID := uuid.NewString()
	// 3 days, 2 posts/day, 2 channels => 12 posts total.
	_, err = pool.Exec(ctx, `INSERT INTO campaigns
(id, owner_id, payment_request_id, channel_ids, total_posts, posts_per_day, schedule_slots,
 start_at, end_at, next_slot, posts_delivered, status, created_at, updated_at)
VALUES ($1, 1001, $2, '{100200,100201}', 12, 2, '{0,43200}',
        $3, $4, 0, 0, 'active', $3, $3) ON CONFLICT DO NOTHING`,
		campaignID, confirmedID, now, now.AddDate(0, 0, 3))
	if err != nil {
		return fmt.Errorf("seed campaign: %w", err)
	}

	_, err = pool.Exec(ctx, `INSERT INTO payment_requests
(id, owner_id, correlation_code, settlement_currency, expected_amount, destination_address,
 status, created_at, expires_at, updated_at)
VALUES ($1, 1002, 'SEEDPAY3', 'TON', 55000, 'EQDemoPlatformWallet',
        'pending', $2, $3, $2) ON CONFLICT DO NOTHING`,
		uuid.NewString(), now, now.Add(20*time.Minute))
	if err != nil {
		return fmt.Errorf("seed pending payment: %w", err)
	}
	return nil
}
