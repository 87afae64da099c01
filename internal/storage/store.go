// Package storage persists boards, event flows, run records, and
// feedback to a file tree (spec.md §6's logical layout), atomically.
// Store is a concrete type that internal/facade holds directly as
// *Store; no interface separates the two.
package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/silexa/boardcore/internal/errs"
)

// Store is a file-backed persistence root rooted at a single
// directory; every app lives under its own app_id subdirectory.
type Store struct {
	root string
}

// Open returns a Store rooted at dir, creating it if absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "create storage root %s", dir)
	}
	return &Store{root: dir}, nil
}

func (s *Store) path(parts ...string) string {
	return filepath.Join(append([]string{s.root}, parts...)...)
}

// writeAtomic marshals v as indented JSON and writes it to path via a
// temp-file-then-rename, the same technique the teacher's
// persistLocked uses for its single-file store.
func writeAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.KindInternal, err, "create directory for %s", path)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "marshal %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errs.Wrap(errs.KindInternal, err, "write temp file for %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.KindInternal, err, "rename temp file into %s", path)
	}
	return nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.New(errs.KindNotFound, "%s", path)
		}
		return errs.Wrap(errs.KindInternal, err, "read %s", path)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errs.Wrap(errs.KindInternal, err, "decode %s", path)
	}
	return nil
}

// appendLine opens path for append, creating parent directories and
// the file if absent, and writes line followed by a newline. Used for
// the run event log, which is append-only once a run starts.
func appendLine(path string, line []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.KindInternal, err, "create directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "open %s", path)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return errs.Wrap(errs.KindInternal, err, "append to %s", path)
	}
	return nil
}

// IsNotFound reports whether err is the KindNotFound a missing file
// produces, letting callers tell "absent" from a real I/O failure.
func IsNotFound(err error) bool {
	return errs.KindOf(err) == errs.KindNotFound
}

func removeAll(dir string) error {
	return os.RemoveAll(dir)
}

func marshalLine(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, err, "marshal log line")
	}
	return b, nil
}

// readLines replays a newline-delimited JSON log into a typed slice,
// used by both the run event log and the event feedback log. A
// missing file reads as an empty, non-error result: nothing has been
// appended yet.
func readLines[T any](path string) ([]T, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindInternal, err, "read %s", path)
	}
	var out []T
	for _, line := range bytes.Split(b, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, errs.Wrap(errs.KindInternal, err, "decode line in %s", path)
		}
		out = append(out, v)
	}
	return out, nil
}

func listEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindInternal, err, "list %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
