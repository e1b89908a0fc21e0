package port

import (
	"context"
	"errors"
	"time"

	"adflow/internal/core/domain"
)

// ErrCodeConflict is returned when a correlation code is already held
// by another pending payment request.
var ErrCodeConflict = errors.New("correlation code already pending")

// ErrNotPending is returned by conditional status transitions when the
// record has already left the pending/active state. Callers treat it
// as "someone else won the race" and discard their result.
var ErrNotPending = errors.New("record is not pending")

// PaymentRepository is the outbound persistence port for payment
// requests. Implementations must make status transitions atomic
// (compare-and-swap on status) so that confirmation happens exactly
// once even under concurrent polling, cancellation and expiry.
type PaymentRepository interface {
	// Create stores a new pending request. It returns ErrCodeConflict
	// when another pending request already holds the same correlation
	// code.
	Create(ctx context.Context, req *domain.PaymentRequest) error
	// Get returns a request by id, or nil when unknown.
	Get(ctx context.Context, id string) (*domain.PaymentRequest, error)
	// ListPending returns all pending requests, oldest first.
	ListPending(ctx context.Context) ([]domain.PaymentRequest, error)
	// Confirm transitions a pending request to confirmed, recording the
	// matched transaction hash. ErrNotPending when already terminal.
	Confirm(ctx context.Context, id, txHash string) error
	// Cancel transitions a pending request to cancelled.
	Cancel(ctx context.Context, id string) error
	// ExpireDue transitions every pending request whose expiry has
	// passed to expired and returns the transitioned requests.
	ExpireDue(ctx context.Context, now time.Time) ([]domain.PaymentRequest, error)
}

// CampaignRepository is the outbound persistence port for campaigns
// and their per-slot delivery state.
type CampaignRepository interface {
	// Create stores a new campaign. The payment request link is unique;
	// creating a second campaign for the same request fails.
	Create(ctx context.Context, c *domain.Campaign) error
	// Get returns a campaign by id, or nil when unknown.
	Get(ctx context.Context, id string) (*domain.Campaign, error)
	// ListByOwner returns an owner's campaigns, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error)
	// ListActive returns all active campaigns.
	ListActive(ctx context.Context) ([]domain.Campaign, error)
	// GetDeliveries returns the delivery rows of one slot keyed by
	// channel id.
	GetDeliveries(ctx context.Context, campaignID string, slot int) (map[int64]domain.Delivery, error)
	// UpsertDelivery records an attempt outcome for one channel of one
	// slot, incrementing the attempt counter.
	UpsertDelivery(ctx context.Context, d domain.Delivery) error
	// RecordProgress adds delivered posts and advances the slot cursor
	// atomically. posts_delivered never decreases.
	RecordProgress(ctx context.Context, campaignID string, delivered int, nextSlot int) error
	// Complete transitions an active campaign to completed.
	// ErrNotPending when already terminal.
	Complete(ctx context.Context, id string) error
}

// LedgerClient reads incoming transactions from the external ledger.
// Implementations must bound each call with the context deadline and
// be safe to retry; the reconciler treats every error as transient.
type LedgerClient interface {
	QueryTransactions(ctx context.Context, address string, since time.Time) ([]domain.LedgerTransaction, error)
}

// Publisher delivers one post to one channel. Content resolution is
// owned by the embedding application.
type Publisher interface {
	Publish(ctx context.Context, channelID int64, campaignID string, slot int) error
}

// Notifier receives core lifecycle events for the embedding
// application to relay to users.
type Notifier interface {
	PaymentConfirmed(ctx context.Context, ev domain.PaymentConfirmedEvent)
	PaymentExpired(ctx context.Context, ev domain.PaymentExpiredEvent)
	CampaignCompleted(ctx context.Context, ev domain.CampaignCompletedEvent)
}
