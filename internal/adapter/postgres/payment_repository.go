package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

// PaymentRepository implements port.PaymentRepository using pgxpool.
// All status transitions are conditional UPDATEs guarded by the
// current status, which gives the exactly-once confirmation guarantee
// without any in-process locking.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a new repository instance.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, owner_id, correlation_code, settlement_currency, expected_amount,
destination_address, matched_tx_hash, status, created_at, expires_at, updated_at`

func scanPayment(row pgx.Row) (domain.PaymentRequest, error) {
	var p domain.PaymentRequest
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.CorrelationCode,
		&p.SettlementCurrency,
		&p.ExpectedAmount,
		&p.DestinationAddress,
		&p.MatchedTxHash,
		&p.Status,
		&p.CreatedAt,
		&p.ExpiresAt,
		&p.UpdatedAt,
	)
	return p, err
}

// Create stores a new pending request. A unique-violation on the
// partial pending-code index maps to port.ErrCodeConflict so the
// caller can resample the code.
func (r *PaymentRepository) Create(ctx context.Context, req *domain.PaymentRequest) error {
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_requests
(id, owner_id, correlation_code, settlement_currency, expected_amount, destination_address, status, created_at, expires_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		req.ID, req.OwnerID, req.CorrelationCode, req.SettlementCurrency, req.ExpectedAmount,
		req.DestinationAddress, req.Status, req.CreatedAt, req.ExpiresAt, req.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return port.ErrCodeConflict
	}
	return err
}

// Get returns a request by id, or nil when unknown.
func (r *PaymentRepository) Get(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPending returns all pending requests, oldest first.
func (r *PaymentRepository) ListPending(ctx context.Context) ([]domain.PaymentRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE status = 'pending' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentRequest, error) {
		return scanPayment(row)
	})
}

// Confirm transitions a pending request to confirmed. The status
// predicate makes a second confirmation, a cancel racing a match or a
// late in-flight result a no-op reported as port.ErrNotPending.
func (r *PaymentRepository) Confirm(ctx context.Context, id, txHash string) error {
	return r.transition(ctx, id,
		`UPDATE payment_requests SET status = 'confirmed', matched_tx_hash = $2, updated_at = now()
WHERE id = $1 AND status = 'pending'`, txHash)
}

// Cancel transitions a pending request to cancelled.
func (r *PaymentRepository) Cancel(ctx context.Context, id string) error {
	return r.transition(ctx, id,
		`UPDATE payment_requests SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status = 'pending'`)
}

func (r *PaymentRepository) transition(ctx context.Context, id, query string, extra ...any) error {
	args := append([]any{id}, extra...)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrNotPending
	}
	return nil
}

// ExpireDue expires every pending request whose window has elapsed and
// returns the transitioned rows for event emission.
func (r *PaymentRepository) ExpireDue(ctx context.Context, now time.Time) ([]domain.PaymentRequest, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE payment_requests SET status = 'expired', updated_at = now()
WHERE status = 'pending' AND expires_at <= $1
RETURNING `+paymentColumns, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentRequest, error) {
		return scanPayment(row)
	})
}
