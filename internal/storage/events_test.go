package storage

import (
	"testing"

	"github.com/silexa/boardcore/internal/board"
)

func TestSaveAndLoadEventRoundTrips(t *testing.T) {
	s, _ := Open(t.TempDir())
	e := board.New("e1", "trigger flow")

	if err := s.SaveEvent("app1", e); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}
	got, err := s.LoadEvent("app1", "e1")
	if err != nil {
		t.Fatalf("LoadEvent: %v", err)
	}
	if got.ID != "e1" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestEventVersionsListed(t *testing.T) {
	s, _ := Open(t.TempDir())
	e := board.New("e1", "trigger flow")
	s.SaveEventVersion("app1", "e1", "1.0.0", e)

	versions, err := s.ListEventVersions("app1", "e1")
	if err != nil {
		t.Fatalf("ListEventVersions: %v", err)
	}
	if len(versions) != 1 || versions[0] != "1.0.0" {
		t.Fatalf("unexpected versions: %v", versions)
	}
}

func TestListEventsReturnsEverySavedEvent(t *testing.T) {
	s, _ := Open(t.TempDir())
	s.SaveEvent("app1", board.New("e1", "one"))
	s.SaveEvent("app1", board.New("e2", "two"))

	ids, err := s.ListEvents("app1")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 events, got %v", ids)
	}
}

func TestDeleteEventRemovesSubtree(t *testing.T) {
	s, _ := Open(t.TempDir())
	s.SaveEvent("app1", board.New("e1", "one"))
	if err := s.DeleteEvent("app1", "e1"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	ids, _ := s.ListEvents("app1")
	if len(ids) != 0 {
		t.Fatalf("expected event removed, got %v", ids)
	}
}
