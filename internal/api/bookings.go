package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type createBookingRequest struct {
	ItemID int64     `json:"item_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), actorID, body.ItemID, body.Start, body.End)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		s.respondError(w, r, domain.Validationf("approved must be true or false"))
		return
	}

	booking, err := s.bookings.Decide(r.Context(), actorID, bookingID, approved)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.bookings.Get(r.Context(), actorID, bookingID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.bookings.ListForBooker)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, s.bookings.ListForOwner)
}

func (s *HTTPServer) listBookings(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID int64, filter models.StateFilter, page models.Page) ([]*models.Booking, error),
) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filter, err := models.ParseStateFilter(r.URL.Query().Get("state"))
	if err != nil {
		s.respondError(w, r, domain.Validationf("%s", err.Error()))
		return
	}

	page, err := parsePage(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := list(r.Context(), actorID, filter, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
