package models

import "time"

// ItemRequest is a wish posted by a user; items may be listed in response.
type ItemRequest struct {
	ID          int64     `json:"id"`
	RequesterID int64     `json:"requester_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestWithItems pairs a request with the items created in response to it.
type RequestWithItems struct {
	Request *ItemRequest `json:"request"`
	Items   []*Item      `json:"items"`
}
