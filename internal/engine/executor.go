package engine

import (
	"bytes"
	"context"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

// NodeInvocation is what the scheduler hands an executor for a single
// node run: the node's own declaration plus the resolved input values
// for its input pins, keyed by pin id.
type NodeInvocation struct {
	Node   board.Node
	Inputs map[string][]byte
}

// NodeOutcome is what an executor returns once a node finishes.
type NodeOutcome struct {
	Outputs map[string][]byte
	Error   string
}

// Executor runs a single node to completion. Local wraps Docker
// container exec; Remote wraps Kubernetes pod exec — the same
// Local/Remote duality the teacher's dyad bootstrap splits between
// agents/shared/docker and agents/manager/internal/beam/kube.go.
type Executor interface {
	ExecuteNode(ctx context.Context, inv NodeInvocation) (NodeOutcome, error)
	Name() string
}

// SelectExecutor routes a board's declared execution mode to a
// concrete backend, rejecting combinations spec.md §4.4 calls out
// (Local demanded but unavailable, Remote demanded but unavailable).
func SelectExecutor(mode board.ExecutionMode, local, remote Executor) (Executor, error) {
	switch mode {
	case board.ExecutionLocal:
		if local == nil {
			return nil, errs.New(errs.KindLocalOnly, "board requires Local execution but no local executor is configured")
		}
		return local, nil
	case board.ExecutionRemote:
		if remote == nil {
			return nil, errs.New(errs.KindRemoteOnly, "board requires Remote execution but no remote executor is configured")
		}
		return remote, nil
	case board.ExecutionHybrid:
		if local != nil {
			return local, nil
		}
		if remote != nil {
			return remote, nil
		}
		return nil, errs.New(errs.KindInternal, "board is Hybrid but neither a local nor a remote executor is configured")
	default:
		return nil, errs.New(errs.KindValidation, "unknown execution_mode %q", mode)
	}
}

// ExecutorFor resolves the executor a specific node must run on: a
// WASM-bearing node is always forced Local regardless of the board's
// declared mode (spec.md §4.4 supplement, SPEC_FULL.md §2 C4), and so
// is a node flagged only_offline (spec.md §3).
func ExecutorFor(n board.Node, mode board.ExecutionMode, local, remote Executor) (Executor, error) {
	if n.WASMPackageID != "" || n.OnlyOffline {
		return SelectExecutor(board.ExecutionLocal, local, remote)
	}
	return SelectExecutor(mode, local, remote)
}

// outcomeFromBuffer is a small helper shared by both executor
// implementations to turn a node's combined stdout capture into a
// single opaque output payload under the fixed output key "stdout".
func outcomeFromBuffer(buf *bytes.Buffer) NodeOutcome {
	return NodeOutcome{Outputs: map[string][]byte{"stdout": append([]byte(nil), buf.Bytes()...)}}
}
