// Package schedule derives evenly spaced posting slots over a 24-hour
// cycle from a daily post count.
package schedule

import "time"

// Slots returns postsPerDay time-of-day offsets spaced evenly across
// 24 hours, always starting at 00:00. postsPerDay below 1 is treated
// as 1.
func Slots(postsPerDay int) []time.Duration {
	if postsPerDay < 1 {
		postsPerDay = 1
	}
	step := 24 * time.Hour / time.Duration(postsPerDay)
	slots := make([]time.Duration, postsPerDay)
	for i := range slots {
		slots[i] = time.Duration(i) * step
	}
	return slots
}

// Timestamps expands a slot table into concrete publish times for a
// campaign starting at start and running durationDays days. The result
// has durationDays*len(slots) entries in ascending order.
func Timestamps(start time.Time, durationDays int, slots []time.Duration) []time.Time {
	out := make([]time.Time, 0, durationDays*len(slots))
	for day := 0; day < durationDays; day++ {
		base := start.Add(time.Duration(day) * 24 * time.Hour)
		for _, offset := range slots {
			out = append(out, base.Add(offset))
		}
	}
	return out
}
