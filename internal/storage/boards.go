package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

func (s *Store) boardDir(appID, boardID string) string {
	return s.path("apps", appID, "boards", boardID)
}

// SaveBoardCurrent writes b as the board's live working copy
// (.../boards/{board_id}/current.json).
func (s *Store) SaveBoardCurrent(appID string, b *board.Board) error {
	return writeAtomic(filepath.Join(s.boardDir(appID, b.ID), "current.json"), b)
}

// LoadBoardCurrent reads a board's live working copy.
func (s *Store) LoadBoardCurrent(appID, boardID string) (*board.Board, error) {
	var b board.Board
	if err := readJSON(filepath.Join(s.boardDir(appID, boardID), "current.json"), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBoard removes a board's entire subtree, including its
// versions.
func (s *Store) DeleteBoard(appID, boardID string) error {
	if err := removeAll(s.boardDir(appID, boardID)); err != nil {
		return errs.Wrap(errs.KindInternal, err, "delete board %s", boardID)
	}
	return nil
}

// ListOpenBoards returns the ids of every board with a current.json
// under appID.
func (s *Store) ListOpenBoards(appID string) ([]string, error) {
	names, err := listEntries(s.path("apps", appID, "boards"))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, id := range names {
		if _, err := os.Stat(filepath.Join(s.boardDir(appID, id), "current.json")); err == nil {
			out = append(out, id)
		}
	}
	return out, nil
}

// SaveBoardVersion snapshots b under a semver-tagged, immutable file
// (SPEC_FULL.md §3, board versioning). semver must already be
// validated by the caller; the store does not interpret it beyond
// using it as a filename.
func (s *Store) SaveBoardVersion(appID, boardID, semver string, b *board.Board) error {
	return writeAtomic(filepath.Join(s.boardDir(appID, boardID), "versions", semver+".json"), b)
}

// LoadBoardVersion reads a previously saved version snapshot.
func (s *Store) LoadBoardVersion(appID, boardID, semver string) (*board.Board, error) {
	var b board.Board
	if err := readJSON(filepath.Join(s.boardDir(appID, boardID), "versions", semver+".json"), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBoardVersions returns every saved version's semver tag in
// lexical filename order, as os.ReadDir sorts them (the caller sorts
// if it needs semantic order).
func (s *Store) ListBoardVersions(appID, boardID string) ([]string, error) {
	names, err := listEntries(filepath.Join(s.boardDir(appID, boardID), "versions"))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimSuffix(n, ".json"))
	}
	return out, nil
}
