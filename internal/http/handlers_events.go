package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"fiscal/internal/core"
)

// eventRequest is the wire shape for event creation and edits. Amount
// accepts a JSON number or a quoted decimal string.
type eventRequest struct {
	Amount   core.Money `json:"amount"`
	Category string     `json:"category"`
	Date     string     `json:"date"`
	Memo     string     `json:"memo"`
}

func (req eventRequest) fields() core.EventFields {
	return core.EventFields{
		Amount:   req.Amount,
		Category: sanitizeInput(req.Category),
		Date:     sanitizeInput(req.Date),
		Memo:     sanitizeInput(req.Memo),
	}
}

func decodeEventRequest(r *http.Request) (eventRequest, error) {
	var req eventRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEventRequest(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	email := emailFrom(r.Context())
	event, err := s.ledger.Add(r.Context(), email, req.fields())
	if err != nil {
		slog.WarnContext(r.Context(), "Event creation failed", "email", email, "error", err)
		respondDomainError(w, err)
		return
	}

	s.invalidateAnalytics(email)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Event added successfully",
		"id":      event.ID,
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r.Context())
	eventID := r.PathValue("id")

	if err := s.ledger.Delete(r.Context(), email, eventID); err != nil {
		slog.ErrorContext(r.Context(), "Event deletion failed", "email", email, "event_id", eventID, "error", err)
		respondDomainError(w, err)
		return
	}

	s.invalidateAnalytics(email)
	respondMessage(w, "Event deleted successfully")
}

func (s *Server) handleEditEvent(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEventRequest(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	email := emailFrom(r.Context())
	eventID := r.PathValue("id")

	event, err := s.ledger.Edit(r.Context(), email, eventID, req.fields())
	if err != nil {
		slog.WarnContext(r.Context(), "Event edit failed", "email", email, "event_id", eventID, "error", err)
		respondDomainError(w, err)
		return
	}

	s.invalidateAnalytics(email)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Event updated successfully",
		"id":      event.ID,
	})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r.Context())
	filterDate := sanitizeInput(r.URL.Query().Get("date"))

	events, err := s.ledger.List(r.Context(), email, filterDate)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if events == nil {
		events = []core.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (s *Server) handleSearchEvents(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r.Context())
	term := sanitizeInput(r.PathValue("term"))

	events, err := s.ledger.Search(r.Context(), email, term)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if events == nil {
		events = []core.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, core.SuggestedCategories)
}
