package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sapphires-iaq/filterwatch/internal/api/httpapi"
	"github.com/sapphires-iaq/filterwatch/internal/config"
	"github.com/sapphires-iaq/filterwatch/internal/logger"
	"github.com/sapphires-iaq/filterwatch/internal/orchestrator"
	"github.com/sapphires-iaq/filterwatch/internal/repository/session"
	"github.com/sapphires-iaq/filterwatch/internal/repository/store"
)

// Options controls the filterwatch-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// SessionFile specifies the path to persist dialog session JSON.
	SessionFile string
}

// shutdownTimeout bounds graceful HTTP shutdown on exit.
const shutdownTimeout = 5 * time.Second

// Run starts the evaluation loop and the HTTP server, and blocks until the
// context is canceled. Loads configuration first, then opens the database
// and restores the persisted session.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "filterwatch-server")

	// Load configuration first to get database and server settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyLogSettings(settings); err != nil {
		return fmt.Errorf("apply log settings: %w", err)
	}

	// Command line options override the file settings.
	listenAddress := settings.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	sessionFile := settings.SessionFile
	if opts.SessionFile != "" {
		sessionFile = opts.SessionFile
	}

	// Open the database the sensor pipeline writes into.
	db, err := store.Open(ctx, settings.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	defer func() {
		_ = db.Close()
	}()

	if err = store.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// The pipeline runs as separate processes; a missing one means stale
	// readings, not a reason to refuse to start.
	reportMissingSensorProcesses(ctx, settings.SensorProcesses)

	// Wire the stores into the state machine.
	orch := orchestrator.New(
		store.NewConditionsRepository(db),
		store.NewLedgerRepository(db),
		store.NewRemindersRepository(db),
	)

	svc, err := newService(ctx, orch, session.NewFileRepository(sessionFile))
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	handler := httpapi.NewHandler(svc, store.NewReadingsRepository(db))

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "Filterwatch server listening",
		"listen_address", listenAddress,
		"session_file", sessionFile,
		"tick_interval", settings.TickInterval.String())

	// The evaluation loop runs beside the HTTP server; the service mutex
	// keeps ticks and operator actions from overlapping.
	go runTicker(ctx, svc, settings.TickInterval)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = httpServer.Shutdown(shutdownCtx)
		close(done)
	}()

	if err = httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// applyLogSettings sets the log level from configuration and tees output
// into the rotating log file when one is configured.
func applyLogSettings(settings *config.Config) error {
	level, ok := logger.ParseLogLevel(settings.LogLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", settings.LogLevel)
	}

	if settings.LogFile == "" {
		logger.SetLevel(level)
		return nil
	}

	writer, err := logger.NewRotatingWriter(settings.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	logger.SetLogger(logger.NewTee(level, writer))

	return nil
}

// runTicker drives the periodic evaluation until the context is canceled.
func runTicker(ctx context.Context, svc *service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Evaluation loop stopped")
			return
		case <-ticker.C:
			svc.Tick(ctx)
		}
	}
}
