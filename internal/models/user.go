package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate carries a partial user update; nil fields are left unchanged.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
