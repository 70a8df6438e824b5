package models

import "fmt"

// BookingStatus is the lifecycle state of a booking. A booking is created
// WAITING and moves exactly once to APPROVED or REJECTED; both are terminal.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Decide returns the status after an owner decision. Only WAITING bookings
// may be decided; any other source status is an illegal transition.
func (s BookingStatus) Decide(approve bool) (BookingStatus, error) {
	if s != StatusWaiting {
		return s, fmt.Errorf("status already changed from %s", s)
	}
	if approve {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}

// StateFilter selects a temporal or status bucket when listing bookings.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

func ParseStateFilter(raw string) (StateFilter, error) {
	switch StateFilter(raw) {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return StateFilter(raw), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown state: %s", raw)
}
