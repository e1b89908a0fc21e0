package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

// In-memory port fakes reproducing the repositories' compare-and-swap
// transition semantics, so the race-sensitive paths behave as they do
// against PostgreSQL.

type fakePaymentRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.PaymentRequest
	// conflicts forces the next N creates to fail with ErrCodeConflict.
	conflicts int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{requests: map[string]*domain.PaymentRequest{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, req *domain.PaymentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts > 0 {
		f.conflicts--
		return port.ErrCodeConflict
	}
	for _, other := range f.requests {
		if other.Status == domain.PaymentPending && other.CorrelationCode == req.CorrelationCode {
			return port.ErrCodeConflict
		}
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) Get(_ context.Context, id string) (*domain.PaymentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (f *fakePaymentRepo) ListPending(_ context.Context) ([]domain.PaymentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PaymentRequest
	for _, req := range f.requests {
		if req.Status == domain.PaymentPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Confirm(_ context.Context, id, txHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != domain.PaymentPending {
		return port.ErrNotPending
	}
	req.Status = domain.PaymentConfirmed
	req.MatchedTxHash = txHash
	return nil
}

func (f *fakePaymentRepo) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != domain.PaymentPending {
		return port.ErrNotPending
	}
	req.Status = domain.PaymentCancelled
	return nil
}

func (f *fakePaymentRepo) ExpireDue(_ context.Context, now time.Time) ([]domain.PaymentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PaymentRequest
	for _, req := range f.requests {
		if req.Status == domain.PaymentPending && !req.ExpiresAt.After(now) {
			req.Status = domain.PaymentExpired
			out = append(out, *req)
		}
	}
	return out, nil
}

type fakeLedger struct {
	mu    sync.Mutex
	txs   []domain.LedgerTransaction
	err   error
	calls int
}

func (f *fakeLedger) QueryTransactions(_ context.Context, _ string, since time.Time) ([]domain.LedgerTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.LedgerTransaction
	for _, tx := range f.txs {
		if !tx.ObservedAt.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []domain.PaymentConfirmedEvent
	expired   []domain.PaymentExpiredEvent
	completed []domain.CampaignCompletedEvent
}

func (f *fakeNotifier) PaymentConfirmed(_ context.Context, ev domain.PaymentConfirmedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, ev)
}

func (f *fakeNotifier) PaymentExpired(_ context.Context, ev domain.PaymentExpiredEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, ev)
}

func (f *fakeNotifier) CampaignCompleted(_ context.Context, ev domain.CampaignCompletedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, ev)
}

type deliveryKey struct {
	campaignID string
	slot       int
	channel    int64
}

type fakeCampaignRepo struct {
	mu         sync.Mutex
	campaigns  map[string]*domain.Campaign
	deliveries map[deliveryKey]domain.Delivery
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns:  map[string]*domain.Campaign{},
		deliveries: map[deliveryKey]domain.Delivery{},
	}
}

func (f *fakeCampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.campaigns {
		if other.PaymentRequestID == c.PaymentRequestID {
			return fmt.Errorf("payment request %s already funded a campaign", c.PaymentRequestID)
		}
	}
	cp := *c
	f.campaigns[c.ID] = &cp
	return nil
}

func (f *fakeCampaignRepo) Get(_ context.Context, id string) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Campaign
	for _, c := range f.campaigns {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListActive(_ context.Context) ([]domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Campaign
	for _, c := range f.campaigns {
		if c.Status == domain.CampaignActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) GetDeliveries(_ context.Context, campaignID string, slot int) (map[int64]domain.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]domain.Delivery{}
	for key, d := range f.deliveries {
		if key.campaignID == campaignID && key.slot == slot {
			out[key.channel] = d
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) UpsertDelivery(_ context.Context, d domain.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := deliveryKey{d.CampaignID, d.SlotIndex, d.ChannelID}
	prev, ok := f.deliveries[key]
	if ok {
		d.Attempts = prev.Attempts + 1
	} else {
		d.Attempts = 1
	}
	f.deliveries[key] = d
	return nil
}

func (f *fakeCampaignRepo) RecordProgress(_ context.Context, campaignID string, delivered int, nextSlot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok || c.Status != domain.CampaignActive {
		return nil
	}
	c.PostsDelivered += delivered
	if nextSlot > c.NextSlot {
		c.NextSlot = nextSlot
	}
	return nil
}

func (f *fakeCampaignRepo) Complete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok || c.Status != domain.CampaignActive {
		return port.ErrNotPending
	}
	c.Status = domain.CampaignCompleted
	return nil
}

type publishCall struct {
	channelID int64
	slot      int
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
	// failures maps a channel to how many publishes fail before
	// succeeding. -1 fails forever.
	failures map[int64]int
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{failures: map[int64]int{}}
}

func (f *fakePublisher) Publish(_ context.Context, channelID int64, _ string, slot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, publishCall{channelID: channelID, slot: slot})
	remaining, ok := f.failures[channelID]
	if !ok || remaining == 0 {
		return nil
	}
	if remaining > 0 {
		f.failures[channelID] = remaining - 1
	}
	return fmt.Errorf("channel %d unavailable", channelID)
}
