package domain

// PricingQuote is the priced offer for a campaign purchase. Prices are
// stored in integer minor units of the platform credit currency
// (e.g. hundredths). It is a value object and is never persisted.
type PricingQuote struct {
	DurationDays    int
	ChannelCount    int
	PostsPerDay     int
	TotalPosts      int // DurationDays * PostsPerDay * ChannelCount
	DiscountPercent float64
	BasePrice       int64
	FinalPrice      int64
	// UnitPrices maps a settlement currency code to the amount payable
	// in that currency's minor units, derived from FinalPrice via the
	// configured exchange rates.
	UnitPrices map[string]int64
}
