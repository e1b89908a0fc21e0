package domain

// Events surfaced to the embedding application (the bot). The core
// emits them on state transitions and never formats user-facing text.

// PaymentConfirmedEvent is emitted exactly once when a pending request
// matches an observed ledger transaction.
type PaymentConfirmedEvent struct {
	RequestID string
	OwnerID   int64
	TxHash    string
}

// PaymentExpiredEvent is emitted when a request's payment window
// elapses with no matching transaction.
type PaymentExpiredEvent struct {
	RequestID string
	OwnerID   int64
}

// CampaignCompletedEvent is emitted when a campaign delivers all
// purchased posts or its end date passes.
type CampaignCompletedEvent struct {
	CampaignID     string
	OwnerID        int64
	PostsDelivered int
	TotalPosts     int
}
