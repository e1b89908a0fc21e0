package configs

import "time"

// Payments configures the payment reconciliation engine. Window is how
// long a request stays payable; Tolerance is the allowed relative
// deviation between expected and observed amount, absorbing network
// fee deductions. CodeLength is the correlation code length in
// characters; CodeRetries bounds regeneration on a pending-code
// collision.
type Payments struct {
	Window       time.Duration `env:"WINDOW" envDefault:"20m"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"30s"`
	Tolerance    float64       `env:"TOLERANCE" envDefault:"0.05"`
	CodeLength   int           `env:"CODE_LENGTH" envDefault:"8"`
	CodeRetries  int           `env:"CODE_RETRIES" envDefault:"5"`
	// ReceivingAddress is the platform wallet incoming ledger payments
	// are sent to.
	ReceivingAddress string `env:"RECEIVING_ADDRESS" envDefault:""`
	// CreditCurrency is the settlement currency settled against the
	// platform's internal balance instead of the ledger.
	CreditCurrency string `env:"CREDIT_CURRENCY" envDefault:"CREDITS"`
	// Concurrency bounds how many pending requests one poll tick
	// reconciles in parallel.
	Concurrency int `env:"CONCURRENCY" envDefault:"8"`
}
