package service

import (
	"time"

	"shareit/internal/models"
)

// pickAnnotations selects the temporally nearest bookings around now:
// last has the greatest start before now, next the smallest start after now.
// REJECTED bookings never qualify. Equal starts resolve to the lowest id so
// the result is deterministic.
func pickAnnotations(bookings []*models.Booking, now time.Time) (last, next *models.Booking) {
	for _, b := range bookings {
		if b.Status == models.StatusRejected {
			continue
		}
		switch {
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) ||
				(b.Start.Equal(next.Start) && b.ID < next.ID) {
				next = b
			}
		case b.Start.Before(now):
			if last == nil || b.Start.After(last.Start) ||
				(b.Start.Equal(last.Start) && b.ID < last.ID) {
				last = b
			}
		}
	}
	return last, next
}

// groupBookingsByItem buckets bookings by item id so a batch of items is
// annotated in one pass over the bookings.
func groupBookingsByItem(bookings []*models.Booking) map[int64][]*models.Booking {
	grouped := make(map[int64][]*models.Booking)
	for _, b := range bookings {
		grouped[b.ItemID] = append(grouped[b.ItemID], b)
	}
	return grouped
}

func groupCommentsByItem(comments []*models.Comment) map[int64][]*models.Comment {
	grouped := make(map[int64][]*models.Comment)
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped
}
