package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adflow/internal/config/configs"
	"adflow/internal/core/domain"
	"adflow/internal/core/port"
)

// ErrInvalidPaymentInput signals a caller error on request creation.
var ErrInvalidPaymentInput = errors.New("invalid payment input")

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/L) so
// users can copy the correlation code into a memo field reliably.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// PaymentReconciler owns the registry of pending payment requests and
// correlates them against the external ledger. It implements
// port.PaymentUseCase. Exactly-once confirmation is delegated to the
// repository's conditional status transition, so replayed transactions
// and cancel/expire races all collapse into a single winner.
type PaymentReconciler struct {
	repo     port.PaymentRepository
	ledger   port.LedgerClient
	notifier port.Notifier
	logger   *slog.Logger
	cfg      configs.Payments
}

// NewPaymentReconciler wires the reconciliation engine.
func NewPaymentReconciler(repo port.PaymentRepository, ledger port.LedgerClient, notifier port.Notifier, logger *slog.Logger, cfg configs.Payments) *PaymentReconciler {
	return &PaymentReconciler{repo: repo, ledger: ledger, notifier: notifier, logger: logger, cfg: cfg}
}

// CreateRequest registers a pending payment expectation. The
// correlation code is rejection-sampled until it does not collide with
// any currently pending request; a collision with a settled request is
// harmless and allowed.
func (r *PaymentReconciler) CreateRequest(ctx context.Context, in port.CreatePaymentReq) (*domain.PaymentRequest, error) {
	if in.OwnerID == 0 || in.ExpectedAmount <= 0 || in.SettlementCurrency == "" {
		return nil, ErrInvalidPaymentInput
	}

	// Ledger-settled currencies are paid to the platform wallet; the
	// credit currency settles internally and carries no address.
	address := ""
	if in.SettlementCurrency != r.cfg.CreditCurrency {
		address = r.cfg.ReceivingAddress
	}

	now := time.Now().UTC()
	req := &domain.PaymentRequest{
		ID:                 uuid.NewString(),
		OwnerID:            in.OwnerID,
		SettlementCurrency: in.SettlementCurrency,
		ExpectedAmount:     in.ExpectedAmount,
		DestinationAddress: address,
		Status:             domain.PaymentPending,
		ExpiresAt:          now.Add(r.cfg.Window),
	}

	for attempt := 0; ; attempt++ {
		code, err := sampleCode(r.cfg.CodeLength)
		if err != nil {
			return nil, err
		}
		req.CorrelationCode = code
		err = r.repo.Create(ctx, req)
		if err == nil {
			return req, nil
		}
		if !errors.Is(err, port.ErrCodeConflict) {
			return nil, err
		}
		if attempt+1 >= r.cfg.CodeRetries {
			return nil, fmt.Errorf("correlation code space exhausted after %d attempts: %w", attempt+1, err)
		}
	}
}

// CancelRequest aborts a pending request. port.ErrNotPending is
// returned when the request already settled or expired.
func (r *PaymentReconciler) CancelRequest(ctx context.Context, id string) error {
	return r.repo.Cancel(ctx, id)
}

// ConfirmRequest settles a request out of band, used for the platform
// credit currency where no ledger is involved. The reference is stored
// in place of a transaction hash. Confirmation stays exactly-once.
func (r *PaymentReconciler) ConfirmRequest(ctx context.Context, id, reference string) error {
	req, err := r.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return port.ErrNotPending
	}
	if err = r.repo.Confirm(ctx, id, reference); err != nil {
		return err
	}
	r.notifier.PaymentConfirmed(ctx, domain.PaymentConfirmedEvent{
		RequestID: id,
		OwnerID:   req.OwnerID,
		TxHash:    reference,
	})
	return nil
}

// GetRequest returns a request by id, or nil when unknown.
func (r *PaymentReconciler) GetRequest(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	return r.repo.Get(ctx, id)
}

// PollTick matches every live pending ledger-settled request against
// transactions observed since its creation. Requests are processed
// with bounded fan-out so one slow ledger call cannot stall the batch.
// Ledger errors leave the request pending for the next tick.
func (r *PaymentReconciler) PollTick(ctx context.Context) port.TickStats {
	var stats port.TickStats

	pending, err := r.repo.ListPending(ctx)
	if err != nil {
		r.logger.Error("list pending payments", slog.Any("error", err))
		stats.Errors++
		return stats
	}

	now := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	results := make([]port.TickStats, len(pending))
	for i := range pending {
		req := pending[i]
		if req.DestinationAddress == "" || !now.Before(req.ExpiresAt) {
			continue
		}
		stats.Scanned++
		i := i
		g.Go(func() error {
			results[i] = r.reconcileOne(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		stats.Confirmed += res.Confirmed
		stats.Errors += res.Errors
	}
	return stats
}

// reconcileOne queries the ledger for one request and applies the
// first matching transaction.
func (r *PaymentReconciler) reconcileOne(ctx context.Context, req domain.PaymentRequest) port.TickStats {
	var stats port.TickStats

	txs, err := r.ledger.QueryTransactions(ctx, req.DestinationAddress, req.CreatedAt)
	if err != nil {
		// Transient by definition; the request stays pending.
		r.logger.Warn("ledger query failed",
			slog.String("request_id", req.ID), slog.Any("error", err))
		stats.Errors++
		return stats
	}

	for _, tx := range txs {
		if !r.matches(req, tx) {
			continue
		}
		err = r.repo.Confirm(ctx, req.ID, tx.Hash)
		if errors.Is(err, port.ErrNotPending) {
			// Lost the race to a cancel, expiry or an earlier poll
			// observing the same transaction. Discard.
			return stats
		}
		if err != nil {
			r.logger.Error("confirm payment",
				slog.String("request_id", req.ID), slog.Any("error", err))
			stats.Errors++
			return stats
		}
		stats.Confirmed++
		r.logger.Info("payment confirmed",
			slog.String("request_id", req.ID), slog.String("tx_hash", tx.Hash))
		r.notifier.PaymentConfirmed(ctx, domain.PaymentConfirmedEvent{
			RequestID: req.ID,
			OwnerID:   req.OwnerID,
			TxHash:    tx.Hash,
		})
		return stats
	}
	return stats
}

// matches reports whether a ledger transaction settles the request:
// the memo must equal the correlation code and the amount must be
// within the configured relative tolerance of the expected amount.
func (r *PaymentReconciler) matches(req domain.PaymentRequest, tx domain.LedgerTransaction) bool {
	if strings.TrimSpace(tx.Memo) != req.CorrelationCode {
		return false
	}
	diff := tx.Amount - req.ExpectedAmount
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(req.ExpectedAmount) <= r.cfg.Tolerance
}

// ExpireSweep expires every overdue pending request and emits the
// corresponding events.
func (r *PaymentReconciler) ExpireSweep(ctx context.Context) port.TickStats {
	var stats port.TickStats
	expired, err := r.repo.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		r.logger.Error("expire sweep", slog.Any("error", err))
		stats.Errors++
		return stats
	}
	for _, req := range expired {
		stats.Expired++
		r.logger.Info("payment expired", slog.String("request_id", req.ID))
		r.notifier.PaymentExpired(ctx, domain.PaymentExpiredEvent{
			RequestID: req.ID,
			OwnerID:   req.OwnerID,
		})
	}
	return stats
}

// Run drives the reconciliation loop until the context is cancelled.
// Poll and sweep share one cadence; both degrade to "try again next
// tick" on any failure.
func (r *PaymentReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll := r.PollTick(ctx)
			sweep := r.ExpireSweep(ctx)
			if poll.Scanned > 0 || sweep.Expired > 0 || poll.Errors+sweep.Errors > 0 {
				r.logger.Debug("reconcile tick",
					slog.Int("scanned", poll.Scanned),
					slog.Int("confirmed", poll.Confirmed),
					slog.Int("expired", sweep.Expired),
					slog.Int("errors", poll.Errors+sweep.Errors))
			}
		}
	}
}

// sampleCode draws a correlation code uniformly from the unambiguous
// alphabet using crypto/rand.
func sampleCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
