package domain

import "time"

// CampaignStatus is the lifecycle state of a purchased campaign.
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign is a paid multi-post publication plan across one or more
// channels. It is created exactly once per confirmed payment request
// (the PaymentRequestID link is immutable) and advanced by the tracker
// until PostsDelivered reaches TotalPosts or EndAt passes.
type Campaign struct {
	ID               string
	OwnerID          int64
	PaymentRequestID string
	ChannelIDs       []int64
	TotalPosts       int
	PostsPerDay      int
	// ScheduleSlots are time-of-day offsets from the start of each
	// campaign day, one per daily post, covering a 24h cycle.
	ScheduleSlots []time.Duration
	StartAt       time.Time
	EndAt         time.Time
	// NextSlot is the index of the next unresolved slot in the flat
	// schedule (0 .. DurationDays*PostsPerDay-1). Slots before it have
	// been published or skipped.
	NextSlot       int
	PostsDelivered int
	Status         CampaignStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SlotCount returns the number of publish slots over the whole
// campaign duration. Each slot fans out to every channel, so
// TotalPosts = SlotCount * len(ChannelIDs).
func (c *Campaign) SlotCount() int {
	if len(c.ChannelIDs) == 0 {
		return 0
	}
	return c.TotalPosts / len(c.ChannelIDs)
}

// SlotTime returns the scheduled publish time of slot k. Day k/PostsPerDay
// starts at StartAt plus whole days; the in-day offset comes from the
// slot table.
func (c *Campaign) SlotTime(k int) time.Time {
	day := k / c.PostsPerDay
	offset := c.ScheduleSlots[k%c.PostsPerDay]
	return c.StartAt.Add(time.Duration(day)*24*time.Hour + offset)
}

// DeliveryStatus is the terminal outcome of one channel within one slot.
type DeliveryStatus string

const (
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliverySkipped   DeliveryStatus = "skipped"
)

// Delivery tracks publish attempts for one channel of one slot. It
// persists retry counts across ticks so a crash does not reset the
// bounded retry budget.
type Delivery struct {
	CampaignID string
	SlotIndex  int
	ChannelID  int64
	Attempts   int
	Status     DeliveryStatus
	UpdatedAt  time.Time
}
