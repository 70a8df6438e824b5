package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

type addItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   int64  `json:"request_id"`
}

func (s *HTTPServer) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item := &models.Item{
		Name:        body.Name,
		Description: body.Description,
		RequestID:   body.RequestID,
	}
	if body.Available != nil {
		item.Available = *body.Available
	}

	created, err := s.items.Add(r.Context(), ownerID, item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var update models.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := s.items.Update(r.Context(), ownerID, itemID, update)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.items.Get(r.Context(), actorID, itemID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleListOwned(w http.ResponseWriter, r *http.Request) {
	ownerID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.items.ListOwned(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	actorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.items.Search(r.Context(), actorID, r.URL.Query().Get("text"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := callerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.items.AddComment(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
