package service

import (
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annBooking(id int64, status models.BookingStatus, start time.Time) *models.Booking {
	return &models.Booking{ID: id, ItemID: 1, Status: status, Start: start, End: start.Add(time.Hour)}
}

func TestPickAnnotations(t *testing.T) {
	now := testNow

	t.Run("NearestEitherSide", func(t *testing.T) {
		bookings := []*models.Booking{
			annBooking(1, models.StatusApproved, now.Add(-72*time.Hour)),
			annBooking(2, models.StatusApproved, now.Add(-24*time.Hour)),
			annBooking(3, models.StatusWaiting, now.Add(48*time.Hour)),
			annBooking(4, models.StatusWaiting, now.Add(24*time.Hour)),
		}
		last, next := pickAnnotations(bookings, now)
		require.NotNil(t, last)
		require.NotNil(t, next)
		assert.Equal(t, int64(2), last.ID)
		assert.Equal(t, int64(4), next.ID)
	})

	t.Run("RejectedNeverQualify", func(t *testing.T) {
		bookings := []*models.Booking{
			annBooking(1, models.StatusRejected, now.Add(-time.Hour)),
			annBooking(2, models.StatusRejected, now.Add(time.Hour)),
		}
		last, next := pickAnnotations(bookings, now)
		assert.Nil(t, last)
		assert.Nil(t, next)
	})

	t.Run("EqualStartsPickLowestID", func(t *testing.T) {
		bookings := []*models.Booking{
			annBooking(7, models.StatusWaiting, now.Add(time.Hour)),
			annBooking(3, models.StatusWaiting, now.Add(time.Hour)),
			annBooking(9, models.StatusApproved, now.Add(-time.Hour)),
			annBooking(4, models.StatusApproved, now.Add(-time.Hour)),
		}
		last, next := pickAnnotations(bookings, now)
		assert.Equal(t, int64(4), last.ID)
		assert.Equal(t, int64(3), next.ID)
	})

	t.Run("Empty", func(t *testing.T) {
		last, next := pickAnnotations(nil, now)
		assert.Nil(t, last)
		assert.Nil(t, next)
	})
}

func TestGroupBookingsByItem(t *testing.T) {
	a := annBooking(1, models.StatusWaiting, testNow)
	b := annBooking(2, models.StatusWaiting, testNow)
	b.ItemID = 2
	c := annBooking(3, models.StatusWaiting, testNow)

	grouped := groupBookingsByItem([]*models.Booking{a, b, c})
	assert.Len(t, grouped[1], 2)
	assert.Len(t, grouped[2], 1)
}

func TestGroupCommentsByItem(t *testing.T) {
	grouped := groupCommentsByItem([]*models.Comment{
		{ID: 1, ItemID: 5}, {ID: 2, ItemID: 5}, {ID: 3, ItemID: 6},
	})
	assert.Len(t, grouped[5], 2)
	assert.Len(t, grouped[6], 1)
}
