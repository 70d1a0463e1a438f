package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vietanh2810/raffle-web/internal/api"
	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/db"
	"github.com/vietanh2810/raffle-web/internal/live"
	"github.com/vietanh2810/raffle-web/internal/logger"
	"github.com/vietanh2810/raffle-web/internal/view"
)

const (
	configPath      = "./cmd/app/config.yml"
	shutdownTimeout = 10 * time.Second
)

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	gormDB, err := db.Open(conf.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates -> %w", err)
	}

	hub := live.NewHub(conf.API.AllowedCORSDomains)
	s := api.NewServer(conf, gormDB, renderer, hub)

	// Only the log level follows the file at runtime; everything else needs a restart.
	config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.Init(c.API.Environment); err != nil {
			zap.L().Error("failed to reload logger", zap.Error(err))
		}
	})

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
