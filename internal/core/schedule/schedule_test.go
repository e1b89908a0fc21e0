package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSlots(t *testing.T) {
	cases := []struct {
		postsPerDay int
		want        []time.Duration
	}{
		{1, []time.Duration{0}},
		{2, []time.Duration{0, 12 * time.Hour}},
		{4, []time.Duration{0, 6 * time.Hour, 12 * time.Hour, 18 * time.Hour}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slots(tc.postsPerDay))
	}
}

// TestSlotsEvenSpacing verifies the round-trip property: slot count
// equals posts per day, 00:00 is always present, and consecutive
// offsets are evenly spaced.
func TestSlotsEvenSpacing(t *testing.T) {
	for postsPerDay := 1; postsPerDay <= 12; postsPerDay++ {
		slots := Slots(postsPerDay)
		require.Len(t, slots, postsPerDay)
		require.Equal(t, time.Duration(0), slots[0])

		step := 24 * time.Hour / time.Duration(postsPerDay)
		for i := 1; i < len(slots); i++ {
			require.Equal(t, step, slots[i]-slots[i-1])
		}
		require.Less(t, slots[len(slots)-1], 24*time.Hour)
	}
}

func TestSlotsTwoHoursApart(t *testing.T) {
	slots := Slots(12)
	require.Len(t, slots, 12)
	for i := 1; i < len(slots); i++ {
		require.Equal(t, 2*time.Hour, slots[i]-slots[i-1])
	}
}

func TestTimestamps(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	slots := Slots(2)
	ts := Timestamps(start, 3, slots)
	require.Len(t, ts, 6)
	require.Equal(t, start, ts[0])
	require.Equal(t, start.Add(12*time.Hour), ts[1])
	require.Equal(t, start.Add(24*time.Hour), ts[2])
	require.True(t, ts[len(ts)-1].After(ts[0]))
	for i := 1; i < len(ts); i++ {
		require.True(t, ts[i].After(ts[i-1]))
	}
}
