package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"

	"github.com/silexa/boardcore/internal/errs"
)

// LocalExecutor runs a node inside a long-lived worker container via
// Docker exec, the same pattern the teacher's agents/shared/docker
// client uses for dyad actor/critic containers — generalized here to
// any node whose name resolves to an installed node binary inside the
// container image.
type LocalExecutor struct {
	api         *client.Client
	containerID string
}

// NewLocalExecutor dials the local Docker daemon the way the teacher
// does, via client.FromEnv. If the ping fails and DOCKER_HOST is set,
// the ping error is returned; if DOCKER_HOST is unset, the client is
// returned anyway and no other host is tried.
func NewLocalExecutor(containerID string) (*LocalExecutor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	if _, pingErr := cli.Ping(context.Background()); pingErr != nil {
		if os.Getenv("DOCKER_HOST") != "" {
			_ = cli.Close()
			return nil, pingErr
		}
	}
	return &LocalExecutor{api: cli, containerID: containerID}, nil
}

func (e *LocalExecutor) Name() string { return "local" }

func (e *LocalExecutor) ExecuteNode(ctx context.Context, inv NodeInvocation) (NodeOutcome, error) {
	if e == nil || e.api == nil {
		return NodeOutcome{}, errs.New(errs.KindLocalOnly, "local executor is not initialized")
	}
	payload, err := json.Marshal(inv.Inputs)
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindInternal, err, "encode node inputs")
	}
	cmd := []string{"board-node-run", "--node", inv.Node.Name, "--payload", string(payload)}

	execResp, err := e.api.ContainerExecCreate(ctx, e.containerID, types.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindNodeError, err, "create exec for node %s", inv.Node.Name)
	}
	attach, err := e.api.ContainerExecAttach(ctx, execResp.ID, types.ExecStartCheck{})
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindNodeError, err, "attach exec for node %s", inv.Node.Name)
	}
	defer attach.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(attach.Reader); err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindNodeError, err, "read exec output for node %s", inv.Node.Name)
	}
	inspect, err := e.api.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return NodeOutcome{}, errs.Wrap(errs.KindNodeError, err, "inspect exec for node %s", inv.Node.Name)
	}
	if inspect.ExitCode != 0 {
		return NodeOutcome{Error: fmt.Sprintf("node %s exited %d", inv.Node.Name, inspect.ExitCode)}, nil
	}
	return outcomeFromBuffer(&out), nil
}

func (e *LocalExecutor) Close() error {
	if e == nil || e.api == nil {
		return nil
	}
	return e.api.Close()
}
