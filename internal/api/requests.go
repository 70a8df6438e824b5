package api

import (
	"encoding/json"
	"net/http"
)

type addRequestRequest struct {
	Description string `json:"description"`
}

func (s *HTTPServer) handleAddRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body addRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	request, err := s.requests.Add(r.Context(), requesterID, body.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *HTTPServer) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.ListOwn(r.Context(), requesterID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
	requesterID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.ListOthers(r.Context(), requesterID, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requestID, err := pathID(r, "requestId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.requests.Get(r.Context(), actorID, requestID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
