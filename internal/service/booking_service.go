package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation against availability,
// owner decisions, detail reads and the state-filtered listings.
type BookingService struct {
	repo     domain.Repository
	clock    domain.Clock
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, clock domain.Clock, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		clock:    clock,
		eventBus: eventBus,
		logger:   logger,
	}
}

// canDecide reports whether the actor may approve or reject bookings of the item.
func canDecide(actorID int64, item *models.Item) bool {
	return item.OwnerID == actorID
}

// canView reports whether the actor may see the booking in detail.
func canView(actorID int64, booking *models.Booking, item *models.Item) bool {
	return booking.BookerID == actorID || item.OwnerID == actorID
}

func (s *BookingService) validateInterval(start, end time.Time) error {
	if !end.After(start) {
		return domain.ErrInvalidInterval
	}
	if start.Before(s.clock.Now()) {
		return domain.ErrPastStart
	}
	return nil
}

// Create requests a booking of the item for [start, end). Dates are validated
// before any lookup; a missing item and the requester's own item are
// indistinguishable in the result.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if err := s.validateInterval(start, end); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItemExcludingOwner(ctx, itemID, bookerID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	bookable, err := s.IsBookable(ctx, itemID, start, end)
	if err != nil {
		return nil, err
	}
	if !bookable {
		return nil, domain.ErrIntervalTaken
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		ItemName: item.Name,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncCreated()
	s.logger.Debug().Int64("booking_id", booking.ID).Int64("item_id", itemID).
		Int64("booker_id", bookerID).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking, item.OwnerID)

	return booking, nil
}

// Decide approves or rejects a WAITING booking. Only the item owner may
// decide, and only once; the status flip is atomic against concurrent
// decisions on the same booking.
func (s *BookingService) Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if !canDecide(actorID, item) {
		return nil, domain.Forbiddenf("only the item owner may decide booking %d", bookingID)
	}

	status, err := booking.Status.Decide(approve)
	if err != nil {
		return nil, domain.ErrAlreadyDecided
	}

	if err := s.repo.DecideBooking(ctx, bookingID, status); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eventType := events.EventBookingRejected
	outcome := "rejected"
	if approve {
		eventType = events.EventBookingApproved
		outcome = "approved"
	}
	metrics.IncDecision(outcome)
	s.logger.Debug().Int64("booking_id", bookingID).Str("status", string(updated.Status)).Msg("booking decided")
	s.publishEvent(eventType, updated, item.OwnerID)

	return updated, nil
}

// Get returns the booking in detail for its booker or the item owner.
func (s *BookingService) Get(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if !canView(actorID, booking, item) {
		return nil, domain.Forbiddenf("booking %d may be viewed only by its booker or the item owner", bookingID)
	}

	return booking, nil
}

// ListForBooker returns the user's own bookings for the given state filter.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error) {
	if !page.Valid() {
		return nil, domain.ErrBadPage
	}
	if _, err := s.repo.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}
	return s.repo.ListBookingsByBooker(ctx, bookerID, filter, s.clock.Now(), page)
}

// ListForOwner returns bookings of every item the user owns. A user who owns
// nothing gets an empty list, not an error.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error) {
	if !page.Valid() {
		return nil, domain.ErrBadPage
	}
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.Booking{}, nil
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}
	return s.repo.ListBookingsByItems(ctx, itemIDs, filter, s.clock.Now(), page)
}

// IsBookable reports whether [start, end) is free of APPROVED bookings on the
// item. Linear in the item's booking count; the store query is the place to
// substitute an interval index if volumes ever demand it.
func (s *BookingService) IsBookable(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	bookings, err := s.repo.GetBookingsByItem(ctx, itemID)
	if err != nil {
		return false, err
	}
	for _, b := range bookings {
		if b.Status == models.StatusApproved && b.Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, ownerID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		OwnerID:   ownerID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
