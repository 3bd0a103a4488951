package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/orgs-directory-service/internal/config"
	"github.com/maxviazov/orgs-directory-service/internal/handler"
	"github.com/maxviazov/orgs-directory-service/internal/metrics"
	"github.com/maxviazov/orgs-directory-service/internal/repository"
	"github.com/maxviazov/orgs-directory-service/internal/service"
)

func serve(parent context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, tx, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	instrumented := m.InstrumentStore(store)
	repo := repository.NewDocumentRepository(instrumented, tx)
	orgs := service.NewOrgService(repo, log, service.Options{StrictPages: cfg.Pagination.StrictPages})

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	handler.Register(engine, handler.Dependencies{
		Pinger:      instrumented,
		Orgs:        orgs,
		Metrics:     m,
		Logger:      log,
		CORSOrigins: cfg.App.CORSOrigins,
		OpenAPIPath: handler.DefaultOpenAPIPath,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
