package engine

import (
	"context"

	"go.temporal.io/sdk/client"

	"github.com/silexa/boardcore/internal/errs"
)

// Runner starts, queries, and cancels BoardRunWorkflow executions
// through a live Temporal client. It satisfies internal/facade's
// WorkflowRunner interface by method shape, without facade importing
// engine's client plumbing or engine importing facade.
type Runner struct {
	Client client.Client
}

// NewRunner wraps an already-dialed Temporal client.
func NewRunner(c client.Client) *Runner {
	return &Runner{Client: c}
}

// Start launches a new run, one workflow execution per run id so a
// run's id doubles as its workflow id for queries and signals.
func (r *Runner) Start(ctx context.Context, req RunRequest) error {
	_, err := r.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        req.RunID,
		TaskQueue: TaskQueue,
	}, BoardRunWorkflow, req)
	if err != nil {
		return errs.Wrap(errs.KindInternal, err, "start run %s", req.RunID)
	}
	return nil
}

// Status queries a live run's current StatusView.
func (r *Runner) Status(ctx context.Context, runID string) (StatusView, error) {
	encoded, err := r.Client.QueryWorkflow(ctx, runID, "", QueryStatus)
	if err != nil {
		return StatusView{}, errs.Wrap(errs.KindNotFound, err, "query run %s", runID)
	}
	var view StatusView
	if err := encoded.Get(&view); err != nil {
		return StatusView{}, errs.Wrap(errs.KindInternal, err, "decode run status %s", runID)
	}
	return view, nil
}

// Cancel sends the cooperative cancellation signal a run's grace
// period bounds the response to.
func (r *Runner) Cancel(ctx context.Context, runID string) error {
	if err := r.Client.SignalWorkflow(ctx, runID, "", SignalCancel, nil); err != nil {
		return errs.Wrap(errs.KindInternal, err, "cancel run %s", runID)
	}
	return nil
}
