package server

import (
	"context"

	ps "github.com/mitchellh/go-ps"

	"github.com/sapphires-iaq/filterwatch/internal/logger"
)

// reportMissingSensorProcesses checks that the configured sensor pipeline
// processes are running and logs a warning for each one that is not. The
// server keeps running either way; it only reads what the pipeline writes.
func reportMissingSensorProcesses(ctx context.Context, names []string) {
	if len(names) == 0 {
		return
	}

	processes, err := ps.Processes()
	if err != nil {
		logger.WarnKV(ctx, "Process listing failed, skipping sensor check", "error", err)
		return
	}

	running := make(map[string]struct{}, len(processes))
	for _, process := range processes {
		running[process.Executable()] = struct{}{}
	}

	for _, name := range names {
		if _, ok := running[name]; !ok {
			logger.WarnKV(ctx, "Sensor pipeline process not running, readings may be stale", "process", name)
		}
	}
}
