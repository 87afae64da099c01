package main

import (
	"net/http"
	"os"

	"go.temporal.io/sdk/client"

	"github.com/silexa/boardcore/internal/collab"
	"github.com/silexa/boardcore/internal/engine"
	"github.com/silexa/boardcore/internal/facade"
	"github.com/silexa/boardcore/internal/storage"
	"github.com/silexa/boardcore/internal/xlog"
)

func main() {
	logger := xlog.New("boardd")
	addr := env("ADDR", ":8090")
	dataDir := env("DATA_DIR", "./data")
	temporalAddr := env("TEMPORAL_ADDRESS", "localhost:7233")
	temporalNamespace := env("TEMPORAL_NAMESPACE", "default")
	signingKid := env("REALTIME_SIGNING_KID", "boardd-1")

	store, err := storage.Open(dataDir)
	if err != nil {
		logger.Fatalf("storage open: %v", err)
	}

	keys, err := collab.NewKeySet(signingKid)
	if err != nil {
		logger.Fatalf("realtime keyset: %v", err)
	}

	temporal, err := client.Dial(client.Options{
		HostPort:  temporalAddr,
		Namespace: temporalNamespace,
	})
	if err != nil {
		logger.Fatalf("temporal client: %v", err)
	}
	defer temporal.Close()

	svc := facade.New(store, collab.NewHub(), keys, engine.NewRunner(temporal))

	logger.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, svc.Router(logger)); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
