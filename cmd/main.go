package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"bulletin-lab/domain"
	"bulletin-lab/internal"
	"bulletin-lab/moderation"
	"bulletin-lab/observability"
	"bulletin-lab/repositories"
	"bulletin-lab/runtime"
	"bulletin-lab/runtime/workers"
	"bulletin-lab/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer executes before the
// process exits and the entry point stays testable.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	cfg, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := internal.NewLogger(cfg.LogLevel)

	replacement, err := internal.CharacterRune(cfg.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Shared services: catalog, store, registry, metrics, moderation
	catalog := domain.NewCatalog(cfg.PrivateGroups)
	store := repositories.NewMessageStore(log, cfg.HistoryLimit)
	registry := runtime.NewRegistry()
	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(log, promRegistry)

	moderator, err := moderation.NewEmbeddedModerator(replacement)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	service := services.NewBoardService(log, catalog, store, registry, moderator, metrics)

	// 3. Listening endpoint: a bind failure is fatal before any accept
	address := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision
	supervisor := workers.NewSupervisor(log, cfg.RestartInterval)
	supervisor.Add(workers.NewAcceptor(log, listener, service, cfg.ConnectionBufferSize))

	if cfg.EnableDebugServer {
		rows := func() []internal.GroupRow {
			out := make([]internal.GroupRow, 0, len(catalog.List()))
			for _, group := range catalog.List() {
				out = append(out, internal.GroupRow{
					ID:       string(group.ID),
					Name:     group.Name,
					Members:  registry.GroupSize(group.ID),
					Messages: store.Count(group),
				})
			}
			return out
		}
		stats := func() map[string]any {
			return map[string]any{"sessions": registry.Count()}
		}
		supervisor.Add(internal.NewDebugServer(
			log, fmt.Sprintf(":%d", cfg.DebugPort), rows, stats, promRegistry))
	}

	log.Info("Bulletin board listening", "address", address, "groups", len(catalog.List()))
	supervisor.Run(ctx)

	log.Info("Program stopped cleanly")
	return nil
}
