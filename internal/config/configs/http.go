package configs

// HTTP defines configuration for the HTTP server exposing the quote,
// payment and campaign endpoints to the surrounding bot.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on.
	Port uint16 `env:"PORT" envDefault:"8080"`
}
