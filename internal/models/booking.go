package models

import "time"

type Booking struct {
	ID        int64         `json:"id"`
	ItemID    int64         `json:"item_id"`
	ItemName  string        `json:"item_name"`
	BookerID  int64         `json:"booker_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Overlaps reports whether the booking interval intersects [start, end).
// Intervals are half-open, so touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}
