package storage

import (
	"testing"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

func TestSaveAndLoadBoardCurrentRoundTrips(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b := board.New("b1", "test board")
	if err := s.SaveBoardCurrent("app1", b); err != nil {
		t.Fatalf("SaveBoardCurrent: %v", err)
	}

	got, err := s.LoadBoardCurrent("app1", "b1")
	if err != nil {
		t.Fatalf("LoadBoardCurrent: %v", err)
	}
	if got.ID != "b1" || got.Name != "test board" {
		t.Fatalf("unexpected board: %+v", got)
	}
}

func TestLoadBoardCurrentMissingReturnsNotFound(t *testing.T) {
	s, _ := Open(t.TempDir())
	if _, err := s.LoadBoardCurrent("app1", "missing"); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestBoardVersionsListedAndLoaded(t *testing.T) {
	s, _ := Open(t.TempDir())
	b := board.New("b1", "test board")

	if err := s.SaveBoardVersion("app1", "b1", "1.0.0", b); err != nil {
		t.Fatalf("SaveBoardVersion: %v", err)
	}
	if err := s.SaveBoardVersion("app1", "b1", "1.1.0", b); err != nil {
		t.Fatalf("SaveBoardVersion: %v", err)
	}

	versions, err := s.ListBoardVersions("app1", "b1")
	if err != nil {
		t.Fatalf("ListBoardVersions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("expected 2 versions, got %v", versions)
	}

	got, err := s.LoadBoardVersion("app1", "b1", "1.0.0")
	if err != nil {
		t.Fatalf("LoadBoardVersion: %v", err)
	}
	if got.ID != "b1" {
		t.Fatalf("unexpected version contents: %+v", got)
	}
}

func TestDeleteBoardRemovesCurrentAndVersions(t *testing.T) {
	s, _ := Open(t.TempDir())
	b := board.New("b1", "test board")
	s.SaveBoardCurrent("app1", b)
	s.SaveBoardVersion("app1", "b1", "1.0.0", b)

	if err := s.DeleteBoard("app1", "b1"); err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if _, err := s.LoadBoardCurrent("app1", "b1"); errs.KindOf(err) != errs.KindNotFound {
		t.Fatalf("expected board gone after delete, got %v", err)
	}
}

func TestListOpenBoardsReturnsEverySavedBoard(t *testing.T) {
	s, _ := Open(t.TempDir())
	s.SaveBoardCurrent("app1", board.New("b1", "one"))
	s.SaveBoardCurrent("app1", board.New("b2", "two"))

	ids, err := s.ListOpenBoards("app1")
	if err != nil {
		t.Fatalf("ListOpenBoards: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 open boards, got %v", ids)
	}
}
