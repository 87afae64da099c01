package storage

import (
	"testing"
	"time"

	"github.com/silexa/boardcore/internal/engine"
)

func TestRunMetaRoundTrips(t *testing.T) {
	s, _ := Open(t.TempDir())
	meta := RunMeta{RunID: "r1", BoardID: "b1", Status: engine.StatusSucceeded, StartedAt: time.Now().UTC()}

	if err := s.SaveRunMeta("app1", meta); err != nil {
		t.Fatalf("SaveRunMeta: %v", err)
	}
	got, err := s.LoadRunMeta("app1", "r1")
	if err != nil {
		t.Fatalf("LoadRunMeta: %v", err)
	}
	if got.Status != engine.StatusSucceeded || got.BoardID != "b1" {
		t.Fatalf("unexpected meta: %+v", got)
	}
}

func TestRunEventsAppendInOrder(t *testing.T) {
	s, _ := Open(t.TempDir())
	events := []engine.IntercomEvent{
		{RunID: "r1", Kind: engine.EventRunStarted},
		{RunID: "r1", Kind: engine.EventNodeStarted, NodeID: "n1"},
		{RunID: "r1", Kind: engine.EventRunFinished},
	}
	for _, e := range events {
		if err := s.AppendRunEvent("app1", e); err != nil {
			t.Fatalf("AppendRunEvent: %v", err)
		}
	}

	got, err := s.ListRunEvents("app1", "r1")
	if err != nil {
		t.Fatalf("ListRunEvents: %v", err)
	}
	if len(got) != 3 || got[1].NodeID != "n1" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestListRunEventsOnUnknownRunIsEmptyNotError(t *testing.T) {
	s, _ := Open(t.TempDir())
	got, err := s.ListRunEvents("app1", "missing")
	if err != nil {
		t.Fatalf("expected no error for an unstarted run, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no events, got %v", got)
	}
}

func TestListRunsReturnsEveryRunWithMeta(t *testing.T) {
	s, _ := Open(t.TempDir())
	s.SaveRunMeta("app1", RunMeta{RunID: "r1", BoardID: "b1"})
	s.SaveRunMeta("app1", RunMeta{RunID: "r2", BoardID: "b1"})

	ids, err := s.ListRuns("app1")
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 runs, got %v", ids)
	}
}
