package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"

	"neon-arena/contract"
	"neon-arena/internal"
	"neon-arena/observability"
	"neon-arena/repositories"
	"neon-arena/runtime"
	"neon-arena/runtime/workers"
	"neon-arena/services"
	"neon-arena/settlement"
	"neon-arena/sink"
	"neon-arena/transport/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes every component and owns the server lifecycle, so that
// deferred cleanup (database close, worker drain) always executes before
// the process exits.
func run() error {
	// 1. Configuration & Logger
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Supervision & Arena
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	sessionRepository := repositories.NewSessionRepository(db, log)
	stats := observability.NewServerStats()

	var settler contract.Settler
	if config.SettlementURL != "" {
		settler = settlement.NewHTTPClient(log, config.SettlementURL, config.SettlementTimeout)
	} else {
		settler = settlement.NewNoop(log)
	}

	arena := runtime.NewArena(
		log, sup, registry, sessionRepository, settler, stats,
		config.BufferSize, config.QueueSize,
		config.DisconnectGracePeriod, config.TickInterval,
		config.SinkTimeout, config.TelemetryInterval,
		config.SettlementRetries, config.SettlementRetryInterval,
	)
	arena.Add(sink.NewSessionSink(sessionRepository, log))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the Engine
	arenaDone := make(chan error, 1)
	go func() {
		arenaDone <- arena.Start(ctx)
	}()

	// 6. Websocket Server Setup
	service := services.NewArenaService(arena)
	server := ws.NewServer(log, service, stats, config.WriteTimeout)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: server.Routes()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting websocket server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("websocket server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	arena.Stop()
	<-arenaDone
	log.Info("Program stopped cleanly")

	return nil
}
