package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(Params{
		UnitPrice: 500,
		Rates:     map[string]float64{"TON": 0.02, "CREDITS": 1},
	})
}

func TestQuoteScenarios(t *testing.T) {
	cases := []struct {
		name         string
		durationDays int
		channels     int
		postsPerDay  int
		discount     float64
	}{
		{"one day", 1, 1, 1, 0.8},
		{"three days", 3, 1, 2, 2.4},
		{"thirty days", 30, 2, 12, 24.0},
		{"discount capped", 60, 1, 12, 25.0},
	}
	e := testEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := e.Quote(tc.durationDays, tc.channels)
			require.NoError(t, err)
			require.Equal(t, tc.postsPerDay, q.PostsPerDay)
			require.InDelta(t, tc.discount, q.DiscountPercent, 1e-9)
			require.Equal(t, tc.durationDays*tc.postsPerDay*tc.channels, q.TotalPosts)
		})
	}
}

func TestQuoteInvalidInput(t *testing.T) {
	e := testEngine()
	for _, in := range [][2]int{{0, 1}, {1, 0}, {-3, 2}, {5, -1}} {
		_, err := e.Quote(in[0], in[1])
		require.ErrorIs(t, err, ErrInvalidQuoteInput)
	}
}

// TestQuoteRangeProperties checks the formula bounds over the whole
// supported duration range.
func TestQuoteRangeProperties(t *testing.T) {
	e := testEngine()
	prevPosts := 0
	for days := 1; days <= 365; days++ {
		q, err := e.Quote(days, 1)
		require.NoError(t, err)

		require.GreaterOrEqual(t, q.PostsPerDay, 1)
		require.LessOrEqual(t, q.PostsPerDay, 12)
		require.GreaterOrEqual(t, q.PostsPerDay, prevPosts, "posts per day must not decrease with duration")
		prevPosts = q.PostsPerDay

		require.LessOrEqual(t, q.DiscountPercent, 25.0)
		require.GreaterOrEqual(t, q.FinalPrice, int64(500), "final price must not fall below the floor")
		require.LessOrEqual(t, q.FinalPrice, q.BasePrice)
	}
}

func TestQuoteFloorPrice(t *testing.T) {
	// A minimal campaign discounts below one unit; the floor wins.
	e := testEngine()
	q, err := e.Quote(1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(500), q.BasePrice)
	require.Equal(t, int64(500), q.FinalPrice)
}

func TestQuoteChannelMultiplication(t *testing.T) {
	e := testEngine()
	one, err := e.Quote(10, 1)
	require.NoError(t, err)
	three, err := e.Quote(10, 3)
	require.NoError(t, err)
	require.Equal(t, 3*one.TotalPosts, three.TotalPosts)
	require.Equal(t, 3*one.BasePrice, three.BasePrice)
}

func TestQuoteUnitPrices(t *testing.T) {
	e := testEngine()
	q, err := e.Quote(30, 2)
	require.NoError(t, err)
	require.Equal(t, q.FinalPrice, q.UnitPrices["CREDITS"])
	require.InDelta(t, float64(q.FinalPrice)*0.02, float64(q.UnitPrices["TON"]), 0.5)
}
