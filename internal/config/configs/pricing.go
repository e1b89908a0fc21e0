package configs

// Pricing holds the quote formula constants. UnitPrice is the price of
// one post-day unit in credit minor units; it doubles as the floor no
// final price may fall below. Rates map settlement currency codes to
// the multiplier converting a credit amount into that currency's minor
// units, e.g. PRICING_RATES="TON:0.02,CREDITS:1".
type Pricing struct {
	UnitPrice int64              `env:"UNIT_PRICE" envDefault:"500"`
	Rates     map[string]float64 `env:"RATES" envDefault:"TON:0.02,CREDITS:1" envSeparator:"," envKeyValSeparator:":"`
}
