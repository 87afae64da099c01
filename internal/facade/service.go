package facade

import (
	"context"

	"github.com/silexa/boardcore/internal/collab"
	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/storage"
)

// WorkflowRunner is the slice of a Temporal client the façade needs:
// start a run, read its live status, and request cancellation. Kept
// as an interface so handler tests can stub it instead of dialing a
// real Temporal server.
type WorkflowRunner interface {
	Start(ctx context.Context, req engine.RunRequest) error
	Status(ctx context.Context, runID string) (engine.StatusView, error)
	Cancel(ctx context.Context, runID string) error
}

// Service composes the core's live capabilities (boardState,
// eventState) with Option placeholders for every out-of-core
// sub-state spec.md §4.6 names but leaves to a surrounding deployment.
type Service struct {
	Store  *storage.Store
	Hub    *collab.Hub
	Keys   *collab.KeySet
	Runner WorkflowRunner

	UserState     Option[any]
	TeamState     Option[any]
	RoleState     Option[any]
	TemplateState Option[any]
	StorageState  Option[any]
	HelperState   Option[any]
	BitState      Option[any]
	AIState       Option[any]
	AppState      Option[any]
}

// New wires a Service around its always-live dependencies. Every
// out-of-core sub-state starts absent; a deployment that wants one
// wired sets the corresponding field to Some(impl) before mounting
// routes.
func New(store *storage.Store, hub *collab.Hub, keys *collab.KeySet, runner WorkflowRunner) *Service {
	return &Service{
		Store:  store,
		Hub:    hub,
		Keys:   keys,
		Runner: runner,

		UserState:     None[any](),
		TeamState:     None[any](),
		RoleState:     None[any](),
		TemplateState: None[any](),
		StorageState:  None[any](),
		HelperState:   None[any](),
		BitState:      None[any](),
		AIState:       None[any](),
		AppState:      None[any](),
	}
}

// Capabilities reports which named sub-states are live in this
// deployment, so a remote-only or minimal deployment can tell callers
// what it supports instead of failing requests at call time.
func (s *Service) Capabilities() []Capability {
	caps := []Capability{CapabilityBoardState, CapabilityEventState}
	opts := map[Capability]Option[any]{
		CapabilityUserState:     s.UserState,
		CapabilityTeamState:     s.TeamState,
		CapabilityRoleState:     s.RoleState,
		CapabilityTemplateState: s.TemplateState,
		CapabilityStorageState:  s.StorageState,
		CapabilityHelperState:   s.HelperState,
		CapabilityBitState:      s.BitState,
		CapabilityAIState:       s.AIState,
		CapabilityAppState:      s.AppState,
	}
	for _, cap := range []Capability{
		CapabilityUserState, CapabilityTeamState, CapabilityRoleState, CapabilityTemplateState,
		CapabilityStorageState, CapabilityHelperState, CapabilityBitState, CapabilityAIState, CapabilityAppState,
	} {
		if opts[cap].IsSome() {
			caps = append(caps, cap)
		}
	}
	return caps
}
