package facade

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/idgen"
	"github.com/silexa/boardcore/internal/storage"
)

// GetEvent returns a triggered flow's current definition.
func (s *Service) GetEvent(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	e, err := s.Store.LoadEvent(appID, eventID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// GetEvents lists every event id declared under an app.
func (s *Service) GetEvents(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	ids, err := s.Store.ListEvents(appID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// UpsertEvent creates or replaces an event's definition.
func (s *Service) UpsertEvent(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	var e storage.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}
	if e.ID == "" {
		e.ID = idgen.New()
	}
	if err := s.Store.SaveEvent(appID, &e); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEvent removes an event and every saved version.
func (s *Service) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	if err := s.Store.DeleteEvent(appID, eventID); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetEventVersions lists an event's saved version tags.
func (s *Service) GetEventVersions(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	versions, err := s.Store.ListEventVersions(appID, eventID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// ValidateEvent runs the board model's well-formedness check against
// an event's graph without persisting anything: an event is
// structurally a board (storage.Event), so the same cycle/index/
// duplicate-id invariants apply.
func (s *Service) ValidateEvent(w http.ResponseWriter, r *http.Request) {
	var e board.Board
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}
	if err := board.Validate(&e); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// PrerunEvent runs the static obligations analysis against an event's
// current definition.
func (s *Service) PrerunEvent(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	e, err := s.Store.LoadEvent(appID, eventID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Prerun(e))
}

// ExecuteEvent resolves an event to its current board definition and
// starts a run against it, collapsing to the same workflow executeBoard
// uses once the event's graph is in hand.
func (s *Service) ExecuteEvent(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	var req executeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	e, err := s.Store.LoadEvent(appID, eventID)
	if err != nil {
		writeErr(w, err)
		return
	}

	runID := idgen.Prefixed("run")
	runReq := engine.RunRequest{
		RunID:            runID,
		AppID:            appID,
		EventID:          eventID,
		BoardID:          e.ID,
		Board:            e,
		Payload:          req.Payload,
		StreamState:      req.StreamState,
		OnEventID:        req.OnEventID,
		SkipConsentCheck: req.SkipConsentCheck,
	}
	if err := s.Runner.Start(r.Context(), runReq); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

// IsEventSinkActive reports whether a run is still live by probing
// the workflow client's status query.
func (s *Service) IsEventSinkActive(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	_, err := s.Runner.Status(r.Context(), runID)
	writeJSON(w, http.StatusOK, map[string]bool{"active": err == nil})
}

type feedbackRequest struct {
	Source   string `json:"source"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Context  string `json:"context"`
}

// UpsertEventFeedback appends a feedback record against an event.
func (s *Service) UpsertEventFeedback(w http.ResponseWriter, r *http.Request) {
	appID, eventID := chi.URLParam(r, "app_id"), chi.URLParam(r, "event_id")
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid feedback payload", http.StatusBadRequest)
		return
	}
	f, err := s.Store.UpsertEventFeedback(appID, storage.EventFeedback{
		EventID: eventID, Source: req.Source, Severity: req.Severity, Message: req.Message, Context: req.Context,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}
