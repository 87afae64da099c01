package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/collab"
	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/storage"
	"github.com/silexa/boardcore/internal/xlog"
)

var testLogger = xlog.New("facade-test")

type stubRunner struct {
	started []engine.RunRequest
	status  engine.StatusView
	statusErr error
	cancelled []string
}

func (r *stubRunner) Start(ctx context.Context, req engine.RunRequest) error {
	r.started = append(r.started, req)
	return nil
}

func (r *stubRunner) Status(ctx context.Context, runID string) (engine.StatusView, error) {
	if r.statusErr != nil {
		return engine.StatusView{}, r.statusErr
	}
	return r.status, nil
}

func (r *stubRunner) Cancel(ctx context.Context, runID string) error {
	r.cancelled = append(r.cancelled, runID)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRunner) {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	keys, err := collab.NewKeySet("kid-1")
	if err != nil {
		t.Fatalf("NewKeySet: %v", err)
	}
	runner := &stubRunner{}
	return New(store, collab.NewHub(), keys, runner), runner
}

func TestCapabilitiesReportsOnlyLiveSubStates(t *testing.T) {
	s, _ := newTestService(t)
	caps := s.Capabilities()
	if len(caps) != 2 || caps[0] != CapabilityBoardState || caps[1] != CapabilityEventState {
		t.Fatalf("expected only boardState/eventState live by default, got %v", caps)
	}

	s.AIState = Some[any]("local model runner")
	caps = s.Capabilities()
	found := false
	for _, c := range caps {
		if c == CapabilityAIState {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected aiState to appear once wired, got %v", caps)
	}
}

func TestUpsertAndGetBoardRoundTrips(t *testing.T) {
	s, _ := newTestService(t)
	srv := httptest.NewServer(s.Router(testLogger))
	defer srv.Close()

	b := board.New("b1", "demo")
	body, _ := json.Marshal(b)
	resp, err := http.Post(srv.URL+"/apps/app1/boards", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/apps/app1/boards/b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var got board.Board
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "b1" || got.Name != "demo" {
		t.Fatalf("unexpected board: %+v", got)
	}
}

func TestGetBoardMissingReturnsNotFound(t *testing.T) {
	s, _ := newTestService(t)
	srv := httptest.NewServer(s.Router(testLogger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/apps/app1/boards/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestExecuteBoardStartsRunThroughRunner(t *testing.T) {
	s, runner := newTestService(t)
	srv := httptest.NewServer(s.Router(testLogger))
	defer srv.Close()

	b := board.New("b1", "demo")
	s.Store.SaveBoardCurrent("app1", b)

	resp, err := http.Post(srv.URL+"/apps/app1/boards/b1/execute", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if len(runner.started) != 1 || runner.started[0].BoardID != "b1" {
		t.Fatalf("expected one run started for b1, got %+v", runner.started)
	}
}

func TestCreateBoardVersionProducesChangelog(t *testing.T) {
	s, _ := newTestService(t)
	srv := httptest.NewServer(s.Router(testLogger))
	defer srv.Close()

	b := board.New("b1", "demo")
	s.Store.SaveBoardCurrent("app1", b)

	body, _ := json.Marshal(createVersionRequest{Semver: "1.0.0"})
	resp, err := http.Post(srv.URL+"/apps/app1/boards/b1/versions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create version: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	json.NewDecoder(resp.Body).Decode(&out)
	if out["changelog"] != "initial version" {
		t.Fatalf("expected initial version changelog, got %v", out)
	}
}

func TestCancelExecutionDelegatesToRunner(t *testing.T) {
	s, runner := newTestService(t)
	srv := httptest.NewServer(s.Router(testLogger))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/apps/app1/runs/run-1/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if len(runner.cancelled) != 1 || runner.cancelled[0] != "run-1" {
		t.Fatalf("expected cancel forwarded for run-1, got %v", runner.cancelled)
	}
}
