package engine

import (
	"context"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

// Activities bundles the Temporal activity methods BoardRunWorkflow
// schedules. A struct receiver (rather than free functions) mirrors
// the teacher's cmd/worker registration style, letting the executors
// and event sink be constructed once per worker process and shared
// across every activity invocation.
type Activities struct {
	Local     Executor
	Remote    Executor
	Sink      EventSink
}

// Activity type names, registered via w.RegisterActivity(activities)
// the same way the teacher's cmd/worker/main.go registers its
// Activities struct and refers to its methods by default type name.
const (
	activityValidateRuntimeObligations = "ValidateRuntimeObligations"
	activityExecuteNode                = "ExecuteNode"
	activityEmitEvent                  = "EmitEvent"
)

// ValidateRuntimeObligationsInput is ExecuteNode's pre-flight check:
// every runtime_configured variable the board declares must appear in
// the payload before a run is allowed to emit run.started (spec.md
// §4.4 rule 3, §8 property 7).
type ValidateRuntimeObligationsInput struct {
	Prerun  PrerunResult
	Payload RunPayload
}

// ValidateRuntimeObligations implements spec.md §4.4's runtime
// variable and OAuth gating as a Temporal activity so the check
// itself is scheduled and logged like any other side-effecting step.
// BoardRunWorkflow runs it with a single attempt; it is not retried.
func (a *Activities) ValidateRuntimeObligations(ctx context.Context, in ValidateRuntimeObligationsInput) error {
	if in.Prerun.Invalid {
		return errs.New(errs.KindValidation, "%s", in.Prerun.InvalidReason)
	}
	for _, v := range in.Prerun.RuntimeVariables {
		supplied, ok := in.Payload.RuntimeVariables[v.ID]
		if !ok || len(supplied.DefaultValue) == 0 {
			return errs.New(errs.KindMissingRuntimeVar, "runtime variable %s (%s) was not supplied", v.ID, v.Name)
		}
	}
	for _, req := range in.Prerun.OAuthRequirements {
		token, ok := in.Payload.OAuthTokens[req.ProviderID]
		if !ok {
			return errs.New(errs.KindMissingOAuth, "oauth provider %s requires a token", req.ProviderID)
		}
		if !scopesSatisfied(req.RequiredScopes, token.Scopes) {
			return errs.New(errs.KindInsufficientScopes, "oauth provider %s token is missing required scopes", req.ProviderID)
		}
	}
	return nil
}

func scopesSatisfied(required, granted []string) bool {
	have := map[string]struct{}{}
	for _, s := range granted {
		have[s] = struct{}{}
	}
	for _, s := range required {
		if _, ok := have[s]; !ok {
			return false
		}
	}
	return true
}

// ExecuteNodeInput is one scheduled node dispatch.
type ExecuteNodeInput struct {
	Mode   board.ExecutionMode
	Node   board.Node
	Inputs map[string][]byte
}

// ExecuteNode runs a single node through the mode-appropriate
// executor (spec.md §4.4's execution mode routing).
func (a *Activities) ExecuteNode(ctx context.Context, in ExecuteNodeInput) (NodeOutcome, error) {
	executor, err := ExecutorFor(in.Node, in.Mode, a.Local, a.Remote)
	if err != nil {
		return NodeOutcome{}, err
	}
	return executor.ExecuteNode(ctx, NodeInvocation{Node: in.Node, Inputs: in.Inputs})
}

// EmitEvent pushes an intercom event to the configured sink from
// activity context so it is delivered at-least-once even across a
// workflow retry, matching the teacher's "signal the external state
// workflow" idiom for anything observational rather than
// decision-bearing.
func (a *Activities) EmitEvent(ctx context.Context, event IntercomEvent) error {
	if a.Sink != nil {
		a.Sink.Emit(event)
	}
	return nil
}
