package storage

import (
	"path/filepath"
	"time"

	"github.com/silexa/boardcore/internal/engine"
)

// RunMeta is a run's finalized record (spec.md §6's meta.json), the
// durable counterpart to the live StatusView a Temporal query returns
// while the workflow is still executing.
type RunMeta struct {
	RunID     string           `json:"run_id"`
	BoardID   string           `json:"board_id"`
	Status    engine.RunStatus `json:"status"`
	Kind      string           `json:"kind,omitempty"`
	Message   string           `json:"message,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at,omitempty"`
}

func (s *Store) runDir(appID, runID string) string {
	return s.path("apps", appID, "runs", runID)
}

// SaveRunMeta writes (or overwrites) a run's finalized metadata.
func (s *Store) SaveRunMeta(appID string, meta RunMeta) error {
	return writeAtomic(filepath.Join(s.runDir(appID, meta.RunID), "meta.json"), meta)
}

// LoadRunMeta reads a run's finalized metadata.
func (s *Store) LoadRunMeta(appID, runID string) (RunMeta, error) {
	var meta RunMeta
	err := readJSON(filepath.Join(s.runDir(appID, runID), "meta.json"), &meta)
	return meta, err
}

// AppendRunEvent appends one intercom event to a run's append-only
// log, queried once the run is no longer live (internal/engine's
// ChannelSink covers the live path).
func (s *Store) AppendRunEvent(appID string, event engine.IntercomEvent) error {
	b, err := marshalLine(event)
	if err != nil {
		return err
	}
	return appendLine(filepath.Join(s.runDir(appID, event.RunID), "events.log"), b)
}

// ListRunEvents replays a run's event log in emission order.
func (s *Store) ListRunEvents(appID, runID string) ([]engine.IntercomEvent, error) {
	return readLines[engine.IntercomEvent](filepath.Join(s.runDir(appID, runID), "events.log"))
}

// ListRuns returns every run id recorded under appID.
func (s *Store) ListRuns(appID string) ([]string, error) {
	return listEntries(s.path("apps", appID, "runs"))
}
