package main

import (
	"os"
	"strconv"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/xlog"
)

func main() {
	logger := xlog.New("worker")
	addr := env("TEMPORAL_ADDRESS", "localhost:7233")
	namespace := env("TEMPORAL_NAMESPACE", "default")
	taskQueue := env("TEMPORAL_TASK_QUEUE", engine.TaskQueue)

	c, err := client.Dial(client.Options{
		HostPort:  addr,
		Namespace: namespace,
	})
	if err != nil {
		logger.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(engine.BoardRunWorkflow)

	activities := &engine.Activities{Sink: engine.NewChannelSink(eventSinkBuffer())}

	// Assigned only when construction succeeds: an Executor field left
	// as a typed nil pointer would compare non-nil to SelectExecutor's
	// `local == nil` check, so an unavailable backend must leave the
	// interface field untouched rather than holding a nil *Executor.
	if local, err := engine.NewLocalExecutor(env("LOCAL_CONTAINER_ID", "")); err != nil {
		logger.Printf("local executor unavailable, remote-only nodes still work: %v", err)
	} else {
		activities.Local = local
	}

	if ns := os.Getenv("REMOTE_NAMESPACE"); ns != "" {
		if remote, err := engine.NewRemoteExecutor(ns, env("REMOTE_LABEL_SELECTOR", "app=boardcore-node"), env("REMOTE_CONTAINER_NAME", "node")); err != nil {
			logger.Printf("remote executor unavailable, local-only nodes still work: %v", err)
		} else {
			activities.Remote = remote
		}
	}

	w.RegisterActivity(activities)

	logger.Printf("worker started (task queue: %s)", taskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatalf("worker error: %v", err)
	}
}

func eventSinkBuffer() int {
	n, err := strconv.Atoi(env("EVENT_SINK_BUFFER", "1024"))
	if err != nil {
		return 1024
	}
	return n
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
