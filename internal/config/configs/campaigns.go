package configs

import "time"

// Campaigns configures the progression tracker. TickInterval is the
// cadence of the publish tick (coarse; slots are hours apart).
// PublishRetries bounds per-channel attempts for one slot before the
// channel is skipped. Concurrency bounds how many campaigns one tick
// advances in parallel.
type Campaigns struct {
	TickInterval   time.Duration `env:"TICK_INTERVAL" envDefault:"1m"`
	PublishRetries int           `env:"PUBLISH_RETRIES" envDefault:"3"`
	Concurrency    int           `env:"CONCURRENCY" envDefault:"4"`
	// PublisherURL is the bot endpoint receiving due slots. When empty
	// deliveries are logged instead of sent.
	PublisherURL     string        `env:"PUBLISHER_URL" envDefault:""`
	PublisherTimeout time.Duration `env:"PUBLISHER_TIMEOUT" envDefault:"10s"`
}
