package engine

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

const (
	SignalCancel = "cancel_execution"
	QueryStatus  = "run_status"

	defaultGracePeriod = 5 * time.Second
)

// nodeActivityOptions mirrors the teacher's per-call ActivityOptions
// style in agents/manager/internal/beam/workflow.go: a generous
// retrying policy for node execution, since nodes are expected to be
// idempotent given the same inputs.
func nodeActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	}
}

func noRetryActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
}

// StatusView is what the run_status query returns while the workflow
// is live, exported so a façade client decoding a QueryWorkflow result
// (go.temporal.io/sdk/client) has a concrete type to unmarshal into.
type StatusView struct {
	RunID           string    `json:"run_id"`
	Status          RunStatus `json:"status"`
	NodesInFlight   []string  `json:"nodes_in_flight"`
	AlreadyExecuted []string  `json:"already_executed"`
	StartedAt       time.Time `json:"started_at"`
}

// runState is the mutable bookkeeping the query handler and the
// scheduling loop both read/write; kept separate from BoardRunWorkflow's
// locals so the query handler closure doesn't need its own copy.
type runState struct {
	status   RunStatus
	inFlight map[string]bool
	executed map[string]bool
}

// BoardRunWorkflow is the execution engine's single entry point
// underneath executeBoard/executeEvent once the caller has resolved
// an event to a concrete board. It generalizes the teacher's per-kind
// workflows in agents/manager/internal/beam/workflow.go into one
// board-shaped scheduler instead of a kind switch.
func BoardRunWorkflow(ctx workflow.Context, req RunRequest) (RunResult, error) {
	logger := workflow.GetLogger(ctx)
	startedAt := workflow.Now(ctx).UTC()

	state := &runState{status: StatusRunning, inFlight: map[string]bool{}, executed: map[string]bool{}}
	result := RunResult{RunID: req.RunID, Status: StatusRunning, StartedAt: startedAt}

	_ = workflow.SetQueryHandler(ctx, QueryStatus, func() (StatusView, error) {
		view := StatusView{RunID: req.RunID, Status: state.status, StartedAt: startedAt}
		for id := range state.inFlight {
			view.NodesInFlight = append(view.NodesInFlight, id)
		}
		for id := range state.executed {
			view.AlreadyExecuted = append(view.AlreadyExecuted, id)
		}
		return view, nil
	})

	runCtx, cancelRun := workflow.WithCancel(ctx)
	cancelRequested := false
	workflow.Go(ctx, func(gctx workflow.Context) {
		ch := workflow.GetSignalChannel(gctx, SignalCancel)
		var ignore bool
		ch.Receive(gctx, &ignore)
		cancelRequested = true
		cancelRun()
	})

	prerun := Prerun(req.Board)
	redactor := NewRedactor(req.Board, req.Payload)

	finish := func(status RunStatus, err error) (RunResult, error) {
		result.Status = status
		state.status = status
		if err != nil {
			result.Kind = string(errs.KindOf(err))
			result.Message = redactor.Scrub(err.Error())
		}
		result.EndedAt = workflow.Now(ctx).UTC()
		emit(ctx, redactor, req.RunID, EventRunFinished, "", map[string]string{"status": string(status), "kind": result.Kind})
		logger.Info("run finished", "run_id", req.RunID, "status", status)
		return result, nil
	}

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, noRetryActivityOptions()),
		activityValidateRuntimeObligations, ValidateRuntimeObligationsInput{Prerun: prerun, Payload: req.Payload},
	).Get(ctx, nil); err != nil {
		return finish(StatusFailed, err)
	}
	emit(ctx, redactor, req.RunID, EventRunStarted, "", nil)

	plan, err := BuildPlan(req.Board)
	if err != nil {
		return finish(StatusFailed, err)
	}

	runErr := runPlan(ctx, runCtx, req, prerun, plan, state, redactor, &cancelRequested)

	switch {
	case cancelRequested:
		return finish(StatusCancelled, nil)
	case runErr != nil:
		return finish(StatusFailed, runErr)
	default:
		return finish(StatusSucceeded, nil)
	}
}

// runPlan dispatches each plan group's nodes as activities and waits
// for the group to finish before moving to the next one. A cancel
// signal cancels runCtx, which Temporal propagates to every activity
// scheduled from it; runPlan then gives outstanding activities one
// grace period to unwind before abandoning the group, matching the
// cancellation bound of grace-period-plus-scheduler-tick.
func runPlan(ctx, runCtx workflow.Context, req RunRequest, prerun PrerunResult, plan Plan, state *runState, redactor *Redactor, cancelRequested *bool) error {
	nodes := allNodes(req.Board)

	for _, group := range plan.Groups {
		if *cancelRequested {
			return nil
		}

		futures := map[string]workflow.Future{}
		for _, nodeID := range group {
			n := nodes[nodeID]
			state.inFlight[nodeID] = true
			emit(ctx, redactor, req.RunID, EventNodeStarted, nodeID, nil)
			futures[nodeID] = workflow.ExecuteActivity(workflow.WithActivityOptions(runCtx, nodeActivityOptions()),
				activityExecuteNode, ExecuteNodeInput{Mode: prerun.ExecutionMode, Node: n, Inputs: resolveInputs(req, n)})
		}

		sel := workflow.NewSelector(ctx)
		remaining := len(futures)
		var firstErr error

		for nodeID, fut := range futures {
			nodeID, fut := nodeID, fut
			sel.AddFuture(fut, func(f workflow.Future) {
				var outcome NodeOutcome
				err := f.Get(ctx, &outcome)
				delete(state.inFlight, nodeID)
				state.executed[nodeID] = true
				remaining--
				switch {
				case err != nil:
					emit(ctx, redactor, req.RunID, EventNodeError, nodeID, map[string]string{"error": err.Error()})
					if !nodeHandlesOwnErrors(nodes[nodeID]) && firstErr == nil {
						firstErr = err
					}
				case outcome.Error != "":
					emit(ctx, redactor, req.RunID, EventNodeError, nodeID, map[string]string{"error": outcome.Error})
					if !nodeHandlesOwnErrors(nodes[nodeID]) && firstErr == nil {
						firstErr = errs.New(errs.KindNodeError, "%s", outcome.Error)
					}
				default:
					emit(ctx, redactor, req.RunID, EventNodeFinished, nodeID, nil)
				}
			})
		}

		var graceTimerStarted bool
		var graceExpired bool
		for remaining > 0 && !graceExpired {
			if *cancelRequested && !graceTimerStarted {
				graceTimerStarted = true
				timer := workflow.NewTimer(ctx, defaultGracePeriod)
				sel.AddFuture(timer, func(workflow.Future) { graceExpired = true })
			}
			sel.Select(ctx)
		}

		if *cancelRequested {
			return nil
		}
		if firstErr != nil {
			return firstErr
		}
	}
	return nil
}

// nodeHandlesOwnErrors reports whether a node exposes the well-known
// auto_handle_error output pin, meaning a failure should be routed
// into the graph rather than aborting the run.
func nodeHandlesOwnErrors(n board.Node) bool {
	for _, p := range n.Pins {
		if p.Name == board.PinAutoHandleError || p.Name == board.PinAutoHandleErrorString {
			return true
		}
	}
	return false
}

func resolveInputs(req RunRequest, n board.Node) map[string][]byte {
	out := map[string][]byte{}
	for _, p := range n.InputPins() {
		if v, ok := req.Payload.Inputs[p.ID]; ok {
			out[p.ID] = v
		}
	}
	return out
}

func emit(ctx workflow.Context, redactor *Redactor, runID, kind, nodeID string, fields map[string]string) {
	_ = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, noRetryActivityOptions()),
		activityEmitEvent, IntercomEvent{RunID: runID, Kind: kind, NodeID: nodeID, Fields: redactor.ScrubFields(fields), Timestamp: workflow.Now(ctx).UTC()},
	).Get(ctx, nil)
}
