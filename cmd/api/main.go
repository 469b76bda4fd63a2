package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/app"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/config"
	apphttp "github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/http"
	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	env := config.FromEnv()
	logging.Init(env.LogLevel, os.Stdout)

	if err := run(env); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(env config.Env) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, env)
	if err != nil {
		return err
	}

	handler := apphttp.NewHandler(a.Router, a.Store, apphttp.Config{
		DefaultTopK: a.Config.TopK,
	})
	rateLimiter := apphttp.NewIPRateLimiter(env.RateLimitRPS, env.RateLimitBurst)
	metricsHandler := promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	e := apphttp.NewServer(handler, rateLimiter, env.AllowOrigin, metricsHandler)

	srv := &http.Server{
		Addr:         ":" + env.Port,
		Handler:      e,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*env.Model.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", env.Port)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
