// Package engine implements the execution engine (spec.md §4.4,
// component C4): a Temporal workflow that schedules a board's nodes
// through a local (Docker) or remote (Kubernetes) executor, with
// pre-run analysis, runtime-variable/OAuth injection, cancellation,
// and an intercom event stream.
package engine

import (
	"time"

	"github.com/silexa/boardcore/internal/board"
)

const (
	TaskQueue  = "boardcore-engine"
	WorkflowID = "boardcore-run"
)

// RunRequest starts a board or event execution (executeBoard /
// executeEvent collapse to the same workflow once the caller has
// resolved an event to its board_id/board_version).
type RunRequest struct {
	RunID            string                    `json:"run_id"`
	AppID            string                    `json:"app_id"`
	BoardID          string                    `json:"board_id"`
	EventID          string                    `json:"event_id,omitempty"`
	Board            *board.Board              `json:"board"`
	Payload          RunPayload                `json:"payload"`
	StreamState      bool                      `json:"stream_state,omitempty"`
	OnEventID        string                    `json:"on_event_id,omitempty"`
	SkipConsentCheck bool                      `json:"skip_consent_check,omitempty"`
}

// RunPayload carries the caller-supplied obligations a pre-run
// analysis demanded (spec.md §4.4's runtime variable / OAuth
// injection contract).
type RunPayload struct {
	RuntimeVariables map[string]board.Variable `json:"runtime_variables,omitempty"`
	OAuthTokens      map[string]OAuthToken     `json:"oauth_tokens,omitempty"`
	Inputs           map[string][]byte         `json:"inputs,omitempty"`
}

// OAuthToken is the bearer credential a caller supplies per
// oauth_requirements entry. The engine never persists it.
type OAuthToken struct {
	AccessToken string    `json:"access_token"`
	Scopes      []string  `json:"scopes,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// RunStatus is the lifecycle state of a Run (spec.md §3).
type RunStatus string

const (
	StatusRunning   RunStatus = "Running"
	StatusSucceeded RunStatus = "Succeeded"
	StatusFailed    RunStatus = "Failed"
	StatusCancelled RunStatus = "Cancelled"
)

// RunResult is what BoardRunWorkflow returns once a run finalizes.
type RunResult struct {
	RunID     string    `json:"run_id"`
	Status    RunStatus `json:"status"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// OAuthRequirement is one entry of prerun's oauth_requirements list.
type OAuthRequirement struct {
	ProviderID     string   `json:"provider_id"`
	RequiredScopes []string `json:"required_scopes,omitempty"`
}

// PrerunResult answers spec.md §4.4's prerunBoard/prerunEvent.
type PrerunResult struct {
	RuntimeVariables       []board.Variable    `json:"runtime_variables"`
	OAuthRequirements      []OAuthRequirement  `json:"oauth_requirements"`
	ExecutionMode          board.ExecutionMode `json:"execution_mode"`
	CanExecuteLocally      bool                `json:"can_execute_locally"`
	HasWASMNodes           bool                `json:"has_wasm_nodes,omitempty"`
	WASMPackageIDs         []string            `json:"wasm_package_ids,omitempty"`
	WASMPackagePermissions map[string][]string `json:"wasm_package_permissions,omitempty"`
	OnlyOfflineNodeIDs     []string            `json:"only_offline_node_ids,omitempty"`
	Invalid                bool                `json:"invalid,omitempty"`
	InvalidReason          string              `json:"invalid_reason,omitempty"`
}

// Prerun performs the static analysis spec.md §4.4 requires before a
// run starts: which variables/tokens the caller must supply, and
// where the board is allowed to execute.
func Prerun(b *board.Board) PrerunResult {
	res := PrerunResult{ExecutionMode: b.ExecutionMode}
	for _, v := range b.Variables {
		if v.RuntimeConfigured {
			res.RuntimeVariables = append(res.RuntimeVariables, v)
		}
	}
	wasmIDs := map[string]struct{}{}
	var onlyOfflineIDs []string
	for _, n := range b.Nodes {
		if n.WASMPackageID != "" {
			wasmIDs[n.WASMPackageID] = struct{}{}
		}
		if n.OnlyOffline {
			onlyOfflineIDs = append(onlyOfflineIDs, n.ID)
		}
	}
	for _, l := range b.Layers {
		for _, n := range l.Nodes {
			if n.WASMPackageID != "" {
				wasmIDs[n.WASMPackageID] = struct{}{}
			}
			if n.OnlyOffline {
				onlyOfflineIDs = append(onlyOfflineIDs, n.ID)
			}
		}
	}
	if len(wasmIDs) > 0 {
		res.HasWASMNodes = true
		for id := range wasmIDs {
			res.WASMPackageIDs = append(res.WASMPackageIDs, id)
		}
	}
	// WASM nodes only run through the local host: a board carrying any
	// is forced Local regardless of its declared execution_mode.
	if res.HasWASMNodes {
		res.ExecutionMode = board.ExecutionLocal
	}
	if len(onlyOfflineIDs) > 0 {
		res.OnlyOfflineNodeIDs = onlyOfflineIDs
		// A node's own only_offline flag always forces that node Local
		// (ExecutorFor handles the per-node routing); but a board
		// explicitly declared Remote has no local executor path to
		// honor that, so spec.md §3 calls it a static error instead of
		// a silent override.
		if b.ExecutionMode == board.ExecutionRemote {
			res.Invalid = true
			res.InvalidReason = "board declares Remote execution but carries only_offline nodes: " + joinIDs(onlyOfflineIDs)
		} else {
			res.ExecutionMode = board.ExecutionLocal
		}
	}
	res.CanExecuteLocally = res.ExecutionMode != board.ExecutionRemote
	return res
}

func joinIDs(ids []string) string {
	out := ids[0]
	for _, id := range ids[1:] {
		out += ", " + id
	}
	return out
}
