package storage

import (
	"path/filepath"
	"time"

	"github.com/silexa/boardcore/internal/idgen"
)

// EventFeedback is an append-only annotation against an event, the
// same source/severity/message/context/created_at shape the
// teacher's human-task feedback record uses, attached here to board
// events instead of dyad tasks (SPEC_FULL.md §3).
type EventFeedback struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Source    string    `json:"source"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) feedbackLog(appID, eventID string) string {
	return filepath.Join(s.eventDir(appID, eventID), "feedback.log")
}

// UpsertEventFeedback appends a feedback record, assigning it an id
// and timestamp if missing. Feedback is append-only: there is no
// update-in-place, matching the teacher's addFeedback semantics.
func (s *Store) UpsertEventFeedback(appID string, f EventFeedback) (EventFeedback, error) {
	if f.ID == "" {
		f.ID = idgen.New()
	}
	if f.Severity == "" {
		f.Severity = "info"
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	b, err := marshalLine(f)
	if err != nil {
		return EventFeedback{}, err
	}
	if err := appendLine(s.feedbackLog(appID, f.EventID), b); err != nil {
		return EventFeedback{}, err
	}
	return f, nil
}

// ListEventFeedback replays an event's feedback log in append order.
func (s *Store) ListEventFeedback(appID, eventID string) ([]EventFeedback, error) {
	return readLines[EventFeedback](s.feedbackLog(appID, eventID))
}
