package configs

import "time"

// Ledger configures the blockchain explorer client used for payment
// verification. BaseURL points at the explorer's REST API. Timeout
// bounds a single query so one slow call cannot stall a poll batch;
// MaxRetries bounds transport-level retries within that budget.
type Ledger struct {
	BaseURL    string        `env:"BASE_URL" envDefault:"https://toncenter.com/api/v2"`
	APIKey     string        `env:"API_KEY" envDefault:""`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
	MaxRetries uint64        `env:"MAX_RETRIES" envDefault:"2"`
}
