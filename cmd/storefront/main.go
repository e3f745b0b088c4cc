package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/app"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/storage"
	"github.com/nikolayk812/storefront/internal/web"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	lg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return fmt.Errorf("currency.ParseISO[%s]: %w", cfg.Currency, err)
	}

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage.Open: %w", err)
	}
	defer closeStore()

	client, err := api.New(cfg.APIBaseURL, api.WithLogger(lg.Named("api")))
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	state, err := app.New(store, client, unit, lg)
	if err != nil {
		return fmt.Errorf("app.New: %w", err)
	}
	if err := state.Init(ctx); err != nil {
		return fmt.Errorf("state.Init: %w", err)
	}

	router := web.NewRouter(state, client, lg.Named("web"), web.Options{
		AllowedOrigins:    cfg.AllowedOrigins(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("storefront listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("api", cfg.APIBaseURL),
			zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}
	return nil
}
