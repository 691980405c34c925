package action

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sapphires-iaq/filterwatch/internal/config"
	"github.com/sapphires-iaq/filterwatch/internal/domain/filter"
	"github.com/sapphires-iaq/filterwatch/internal/logger"
	"github.com/sapphires-iaq/filterwatch/internal/version"
)

// Options configures one pushed operator trigger.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ServerAddress overrides the server address from config when specified.
	ServerAddress string
	// Trigger is the operator trigger name to push.
	Trigger string
}

// defaultPushInterval defines the retry delay between push attempts.
const defaultPushInterval = 1 * time.Second

// requestTimeout bounds each individual push attempt.
const requestTimeout = 5 * time.Second

// Run pushes the trigger with retry logic until the server accepts it or
// the context is canceled. A rejected trigger name fails immediately; only
// transport failures are retried.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "filterwatch-action")

	trigger, ok := filter.ParseTrigger(opts.Trigger)
	if !ok || trigger == filter.TriggerTick {
		return fmt.Errorf("unknown trigger %q", opts.Trigger)
	}

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ListenAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	endpoint := "http://" + serverAddress + "/api/v1/actions"
	client := &http.Client{Timeout: requestTimeout}

	logger.InfoKV(ctx, "Pushing operator trigger", "endpoint", endpoint, "trigger", trigger)

	// Attempt immediately before starting the retry loop.
	done, err := attempt(ctx, client, endpoint, trigger)
	if err != nil || done {
		return err
	}

	ticker := time.NewTicker(defaultPushInterval)
	defer ticker.Stop()

	// Retry loop until success or cancellation.
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err = attempt(ctx, client, endpoint, trigger)
			if err != nil || done {
				return err
			}
		}
	}
}

// attempt tries once to push the trigger, returning (completed, error).
// Transport failures are logged and retried; a definitive server answer,
// accepted or rejected, ends the loop.
func attempt(ctx context.Context, client *http.Client, endpoint string, trigger filter.Trigger) (bool, error) {
	body, err := json.Marshal(map[string]string{"trigger": string(trigger)})
	if err != nil {
		return false, fmt.Errorf("encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", version.UserAgent())

	response, err := client.Do(request)
	if err != nil {
		// Log error but continue retrying for transient failures.
		logger.ErrorKV(ctx, "Push attempt failed", "error", err)
		return false, nil
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode == http.StatusBadRequest {
		return false, fmt.Errorf("server rejected trigger %q", trigger)
	}

	if response.StatusCode != http.StatusOK {
		logger.ErrorKV(ctx, "Unexpected server response, retrying", "status", response.StatusCode)
		return false, nil
	}

	var view filter.View
	if err = json.NewDecoder(response.Body).Decode(&view); err != nil {
		logger.ErrorKV(ctx, "Response decode failed, retrying", "error", err)
		return false, nil
	}

	logger.Infof(ctx, "Trigger accepted: %s", view.StatusText)

	return true, nil
}
