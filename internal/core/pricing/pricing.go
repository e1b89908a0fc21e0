// Package pricing computes deterministic campaign quotes. All functions
// are pure; exchange rates and the unit price are supplied by the
// caller through Params.
package pricing

import (
	"errors"
	"math"

	"adflow/internal/core/domain"
)

// ErrInvalidQuoteInput signals a caller error (non-positive duration or
// channel count). It is never retried.
var ErrInvalidQuoteInput = errors.New("invalid quote input")

// Params are the configuration constants behind a quote. UnitPrice is
// the price of a single post-day unit in credit minor units and also
// serves as the floor below which no quote is discounted. Rates map a
// settlement currency code to the multiplier converting credits into
// that currency's minor units.
type Params struct {
	UnitPrice int64
	Rates     map[string]float64
}

// Engine produces quotes from fixed parameters.
type Engine struct {
	params Params
}

// NewEngine returns an engine quoting with the given parameters.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// PostsPerDay returns the daily post count for a duration: longer
// campaigns earn more daily posts, capped at 12 to respect platform
// rate limits.
func PostsPerDay(durationDays int) int {
	n := int(math.Floor(float64(durationDays)/2.5)) + 1
	if n < 1 {
		n = 1
	}
	if n > 12 {
		n = 12
	}
	return n
}

// DiscountPercent returns the duration discount, 0.8% per day capped
// at 25%.
func DiscountPercent(durationDays int) float64 {
	return math.Min(25.0, float64(durationDays)*0.8)
}

// Quote prices a campaign of durationDays across channelCount channels.
// It returns ErrInvalidQuoteInput when either argument is below 1.
func (e *Engine) Quote(durationDays, channelCount int) (domain.PricingQuote, error) {
	if durationDays < 1 || channelCount < 1 {
		return domain.PricingQuote{}, ErrInvalidQuoteInput
	}

	postsPerDay := PostsPerDay(durationDays)
	discount := DiscountPercent(durationDays)

	base := int64(durationDays) * int64(postsPerDay) * int64(channelCount) * e.params.UnitPrice
	final := int64(math.Round(float64(base) * (1 - discount/100)))
	if final < e.params.UnitPrice {
		final = e.params.UnitPrice
	}

	unitPrices := make(map[string]int64, len(e.params.Rates))
	for currency, rate := range e.params.Rates {
		unitPrices[currency] = int64(math.Round(float64(final) * rate))
	}

	return domain.PricingQuote{
		DurationDays:    durationDays,
		ChannelCount:    channelCount,
		PostsPerDay:     postsPerDay,
		TotalPosts:      durationDays * postsPerDay * channelCount,
		DiscountPercent: discount,
		BasePrice:       base,
		FinalPrice:      final,
		UnitPrices:      unitPrices,
	}, nil
}
