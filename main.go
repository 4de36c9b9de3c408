package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/onboarding-feedback/app"
	"github.com/mbolis/onboarding-feedback/config"
	"github.com/mbolis/onboarding-feedback/database"
	"github.com/mbolis/onboarding-feedback/httpx"
	"github.com/mbolis/onboarding-feedback/log"
	"github.com/mbolis/onboarding-feedback/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	log.SetFormat(cfg.LogFormat)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	store := database.NewStore(db)

	bearerServer, err := httpx.NewBearerServer(cfg, store)
	if err != nil {
		log.Fatal("main.bearer_server:", err)
	}

	app := app.App{
		Responses:    store,
		BearerServer: bearerServer,
		Config:       cfg,
	}

	handler := routes.Wire(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runServer(ctx, cfg, handler)
	if err != nil {
		log.Fatal("main.server:", err)
	}
	log.Info("server stopped")
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return serve(ctx, srv, srv.ListenAndServe)
}

// serve runs listen until it fails or ctx is done. In the latter case it
// returns once srv has drained its in-flight requests.
func serve(ctx context.Context, srv *http.Server, listen func() error) error {
	stopped := make(chan struct{})
	defer close(stopped)

	shutdown := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	err := listen()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdown
}
