package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mateusmacedo/go-pathshare/internal/config"
	"github.com/mateusmacedo/go-pathshare/internal/server"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Config{App: cfg.AppName, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to assemble service", err, nil)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			pkgApp.LogError(context.Background(), appLogger, "failed to release resources", err, nil)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		pkgApp.LogInfo(ctx, appLogger, "server starting", map[string]interface{}{"address": cfg.HTTPAddress})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkgApp.LogError(ctx, appLogger, "server stopped unexpectedly", err, nil)
			stop()
		}
	}()

	<-ctx.Done()
	pkgApp.LogInfo(context.Background(), appLogger, "shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(shutdownCtx, appLogger, "server shutdown failed", err, nil)
	}

	pkgApp.LogInfo(context.Background(), appLogger, "server stopped", nil)
}
