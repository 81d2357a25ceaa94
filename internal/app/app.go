// Package app wires the dashboard together: config, sheet client, session,
// HTTP routes, and the optional auto-refresh schedule.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"licenca_dashboard/internal/config"
	"licenca_dashboard/internal/httpapi"
	"licenca_dashboard/internal/metrics"
	"licenca_dashboard/internal/session"
	"licenca_dashboard/internal/sheet"
)

type App struct {
	cfg     config.Config
	session *session.Session
	cron    *cron.Cron
	handler http.Handler
}

func New(cfg config.Config) (*App, error) {
	if cfg.SheetAPIURL == "" {
		return nil, errors.New("SHEET_API_URL não configurada")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	client := sheet.NewClient(cfg.SheetAPIURL, cfg.HTTPTimeout)
	m := metrics.New(prometheus.DefaultRegisterer)
	sess := session.New(client, loc, time.Now, m)

	mux := chi.NewRouter()
	router := httpapi.NewRouter(cfg, sess, client, m, loc, time.Now)
	router.Register(mux)

	a := &App{cfg: cfg, session: sess, handler: mux}
	if cfg.RefreshSpec != "" {
		a.cron = cron.New()
		if _, err := a.cron.AddFunc(cfg.RefreshSpec, a.refresh); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
	defer cancel()
	if err := a.session.Load(ctx); err != nil {
		log.Printf("refresh agendado falhou: %v", err)
	}
}

// Run loads the initial snapshot, starts the refresh schedule, and serves
// HTTP until the context is cancelled. A failed initial load is logged, not
// fatal: the first request retries it.
func (a *App) Run(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, a.cfg.HTTPTimeout)
	if err := a.session.Load(loadCtx); err != nil {
		log.Printf("carga inicial falhou: %v", err)
	}
	cancel()

	if a.cron != nil {
		a.cron.Start()
		defer a.cron.Stop()
	}

	srv := &http.Server{Addr: ":" + a.cfg.HTTPPort, Handler: a.handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("http listening on %s", a.cfg.HTTPPort)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Handler() http.Handler { return a.handler }
