package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   int64     `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemUpdate carries a partial item update; nil fields are left unchanged.
type ItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// AnnotatedItem is an item together with its nearest confirmed bookings and
// comments, as shown to the item owner in listings.
type AnnotatedItem struct {
	Item        *Item      `json:"item"`
	LastBooking *Booking   `json:"last_booking,omitempty"`
	NextBooking *Booking   `json:"next_booking,omitempty"`
	Comments    []*Comment `json:"comments"`
}
