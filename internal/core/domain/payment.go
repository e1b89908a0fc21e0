package domain

import "time"

// PaymentStatus is the lifecycle state of a payment request.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentExpired   PaymentStatus = "expired"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s PaymentStatus) Terminal() bool {
	return s != PaymentPending
}

// PaymentRequest is a pending expectation of an incoming payment. The
// correlation code is embedded by the payer in the transaction memo and
// links an observed ledger transaction back to this request. Amounts
// are integer minor units of the settlement currency.
type PaymentRequest struct {
	ID                 string
	OwnerID            int64
	CorrelationCode    string
	SettlementCurrency string
	ExpectedAmount     int64
	// DestinationAddress is the platform's receiving address for
	// ledger-based currencies; empty for the platform credit currency.
	DestinationAddress string
	// MatchedTxHash records the ledger transaction that confirmed the
	// request. Empty until confirmation.
	MatchedTxHash string
	Status        PaymentStatus
	CreatedAt     time.Time
	ExpiresAt     time.Time
	UpdatedAt     time.Time
}

// LedgerTransaction is an incoming transfer observed on the external
// ledger. The core only reads these; it never mutates ledger state.
type LedgerTransaction struct {
	Hash          string
	SourceAddress string
	Amount        int64
	Memo          string
	ObservedAt    time.Time
}
