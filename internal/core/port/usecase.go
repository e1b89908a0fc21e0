package port

import (
	"context"

	"adflow/internal/core/domain"
)

// PaymentUseCase is the inbound port for the payment reconciliation
// engine.
type PaymentUseCase interface {
	// CreateRequest registers a pending payment expectation and returns
	// it with a freshly sampled correlation code.
	CreateRequest(ctx context.Context, in CreatePaymentReq) (*domain.PaymentRequest, error)
	// CancelRequest aborts a pending request. Only valid while pending.
	CancelRequest(ctx context.Context, id string) error
	// ConfirmRequest settles a request out of band (platform credit
	// currency); reference is stored in place of a transaction hash.
	ConfirmRequest(ctx context.Context, id, reference string) error
	// GetRequest returns a request by id, or nil when unknown.
	GetRequest(ctx context.Context, id string) (*domain.PaymentRequest, error)
	// PollTick matches pending requests against the ledger once.
	PollTick(ctx context.Context) TickStats
	// ExpireSweep expires overdue pending requests once.
	ExpireSweep(ctx context.Context) TickStats
}

// CampaignUseCase is the inbound port for the campaign progression
// tracker.
type CampaignUseCase interface {
	// Activate creates and starts a campaign funded by a confirmed
	// payment request.
	Activate(ctx context.Context, in ActivateCampaignReq) (*domain.Campaign, error)
	// GetCampaign returns a campaign by id, or nil when unknown.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	// ListByOwner returns an owner's campaigns, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Campaign, error)
	// PublishTick publishes every due slot of every active campaign
	// once.
	PublishTick(ctx context.Context) TickStats
}

// CreatePaymentReq carries the user's settlement choice into the
// reconciler. ExpectedAmount is in the settlement currency's minor
// units, taken from the quote's unit prices.
type CreatePaymentReq struct {
	OwnerID            int64
	SettlementCurrency string
	ExpectedAmount     int64
}

// ActivateCampaignReq links a confirmed payment to the purchase it
// funded.
type ActivateCampaignReq struct {
	PaymentRequestID string
	OwnerID          int64
	DurationDays     int
	PostsPerDay      int
	ChannelIDs       []int64
}

// TickStats summarises one pass of a background tick for logging.
type TickStats struct {
	Scanned   int
	Confirmed int
	Expired   int
	Published int
	Completed int
	Skipped   int
	Errors    int
}
