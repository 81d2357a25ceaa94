// sheetstub serves a local stand-in for the spreadsheet endpoint: same wire
// protocol, backed by SQLite, with optional CSV seeding and an import
// directory for indeferimento rosters.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"licenca_dashboard/internal/config"
	"licenca_dashboard/internal/store"
	"licenca_dashboard/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	st, err := store.Open(cfg.StubDBPath)
	if err != nil {
		log.Fatalf("abrir %s: %v", cfg.StubDBPath, err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if cfg.StubSeedPath != "" {
		n, err := st.SeedRegistrosCSV(ctx, cfg.StubSeedPath)
		if err != nil {
			log.Fatalf("seed %s: %v", cfg.StubSeedPath, err)
		}
		log.Printf("seed: %d registros de %s", n, cfg.StubSeedPath)
	}

	watcher := watch.New(cfg.StubImportDir, st)
	if err := watcher.Backfill(ctx); err != nil {
		log.Printf("backfill de importação: %v", err)
	}
	if err := watcher.Start(ctx); err != nil {
		log.Fatalf("watcher: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: store.NewHandler(st)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("sheetstub listening on %s", cfg.HTTPPort)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("run: %v", err)
	}
}
