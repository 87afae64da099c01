package facade

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/command"
	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/errs"
	"github.com/silexa/boardcore/internal/idgen"
)

// GetBoard returns a board's current working copy.
func (s *Service) GetBoard(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// UpsertBoard creates or fully replaces a board's current working
// copy — the bulk counterpart to applying individual commands.
func (s *Service) UpsertBoard(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	var b board.Board
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "invalid board payload", http.StatusBadRequest)
		return
	}
	if b.ID == "" {
		b.ID = idgen.New()
	}
	if err := s.Store.SaveBoardCurrent(appID, &b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBoard removes a board and every saved version.
func (s *Service) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	if err := s.Store.DeleteBoard(appID, boardID); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOpenBoards lists every board id an app has a current.json for.
func (s *Service) GetOpenBoards(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	ids, err := s.Store.ListOpenBoards(appID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// CloseBoard is a no-op at the storage layer (the board is already
// durable on every command apply); it exists only so a client session
// has a symmetric open/close lifecycle call.
func (s *Service) CloseBoard(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type applyCommandRequest struct {
	Command command.Command `json:"command"`
}

// ApplyCommand executes a single reversible mutation against a
// board's current working copy and persists the result, returning the
// inverse the caller's undo stack should keep.
func (s *Service) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	var req applyCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid command payload", http.StatusBadRequest)
		return
	}

	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}
	inverse, err := command.Execute(b, req.Command)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.Store.SaveBoardCurrent(appID, b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inverse": inverse, "board": b})
}

type createVersionRequest struct {
	Semver string `json:"semver"`
}

// CreateBoardVersion snapshots a board's current state under an
// immutable semver tag, diffed by node/pin count for a human-readable
// changelog line (SPEC_FULL.md §3, board versioning).
func (s *Service) CreateBoardVersion(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	var req createVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Semver == "" {
		http.Error(w, "semver required", http.StatusBadRequest)
		return
	}

	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}

	changelog := versionChangelog(s, appID, boardID, b)
	if err := s.Store.SaveBoardVersion(appID, boardID, req.Semver, b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"semver": req.Semver, "changelog": changelog})
}

func versionChangelog(s *Service, appID, boardID string, current *board.Board) string {
	versions, err := s.Store.ListBoardVersions(appID, boardID)
	if err != nil || len(versions) == 0 {
		return "initial version"
	}
	prev, err := s.Store.LoadBoardVersion(appID, boardID, versions[len(versions)-1])
	if err != nil {
		return "initial version"
	}
	nodeDelta := len(current.Nodes) - len(prev.Nodes)
	pinDelta := countPins(current) - countPins(prev)
	return diffLine(nodeDelta, pinDelta)
}

func countPins(b *board.Board) int {
	n := 0
	for _, node := range b.Nodes {
		n += len(node.Pins)
	}
	return n
}

func diffLine(nodeDelta, pinDelta int) string {
	switch {
	case nodeDelta == 0 && pinDelta == 0:
		return "no structural change"
	default:
		return signedCount(nodeDelta) + " nodes, " + signedCount(pinDelta) + " pins"
	}
}

func signedCount(n int) string {
	if n >= 0 {
		return "+" + itoa(n)
	}
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// GetBoardVersions lists a board's saved version tags.
func (s *Service) GetBoardVersions(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	versions, err := s.Store.ListBoardVersions(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

// GetBoardSettings returns the subset of a board's fields that make
// up its runtime settings, without the full node graph.
func (s *Service) GetBoardSettings(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"execution_mode": b.ExecutionMode,
		"log_level":      b.LogLevel,
		"stage":          b.Stage,
	})
}

// GetCatalog returns the declared node-schema catalog, opaque blobs
// the façade stores and serves without interpreting.
func (s *Service) GetCatalog(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	catalog, err := s.Store.LoadCatalog(appID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// PrerunBoard runs the static obligations analysis without executing
// anything.
func (s *Service) PrerunBoard(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engine.Prerun(b))
}

// executeRequest is executeBoard/executeEvent's own request shape
// (spec.md §4.6): payload sits alongside stream_state/on_event_id/
// skip_consent_check as sibling fields, not flattened into it.
type executeRequest struct {
	Payload          engine.RunPayload `json:"payload"`
	StreamState      bool              `json:"stream_state,omitempty"`
	OnEventID        string            `json:"on_event_id,omitempty"`
	SkipConsentCheck bool              `json:"skip_consent_check,omitempty"`
}

// ExecuteBoard starts a run against a board's current working copy.
func (s *Service) ExecuteBoard(w http.ResponseWriter, r *http.Request) {
	appID, boardID := chi.URLParam(r, "app_id"), chi.URLParam(r, "board_id")
	var req executeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	b, err := s.Store.LoadBoardCurrent(appID, boardID)
	if err != nil {
		writeErr(w, err)
		return
	}

	runID := idgen.Prefixed("run")
	runReq := engine.RunRequest{
		RunID:            runID,
		AppID:            appID,
		BoardID:          boardID,
		Board:            b,
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

// GetRunStatus queries a run's live state through the workflow
// client, falling back to its finalized meta.json once the run is no
// longer live (SPEC_FULL.md §2's "live vs finalized" split).
func (s *Service) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	appID, runID := chi.URLParam(r, "app_id"), chi.URLParam(r, "run_id")

	view, err := s.Runner.Status(r.Context(), runID)
	if err == nil {
		writeJSON(w, http.StatusOK, view)
		return
	}

	meta, storeErr := s.Store.LoadRunMeta(appID, runID)
	if storeErr != nil {
		writeErr(w, storeErr)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// CancelExecution requests cooperative cancellation of a live run.
func (s *Service) CancelExecution(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	if err := s.Runner.Cancel(r.Context(), runID); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		status = http.StatusNotFound
	case errs.KindValidation, errs.KindMissingRuntimeVar, errs.KindMissingOAuth, errs.KindInsufficientScopes:
		status = http.StatusBadRequest
	case errs.KindPermissionDenied:
		status = http.StatusForbidden
	case errs.KindConflict:
		status = http.StatusConflict
	case errs.KindRemoteOnly, errs.KindLocalOnly:
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}
