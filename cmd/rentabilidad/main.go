package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"rentabilidad/internal/backend"
	"rentabilidad/internal/cli"
	apphttp "rentabilidad/internal/http"
	applog "rentabilidad/internal/log"
	"rentabilidad/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	amqpClient, err := cli.NewAMQPClient(cfg)
	if err != nil {
		// The server works without events; the worker just won't see changes.
		logger.Warn("AMQP unavailable, business events disabled", "error", err)
	} else if amqpClient != nil {
		defer amqpClient.Close()
		logger.Info("Publishing business events", "exchange", cfg.AMQPExchange)
	}

	svc := services.NewBusinessService(store.Repo, cli.Publisher(amqpClient))
	srv, err := apphttp.NewServer(svc, apphttp.Options{
		Addr:          ":" + cfg.Port,
		Logger:        logger,
		Ready:         store.Ping,
		StatsCacheTTL: cfg.StatsCacheTTL,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting rentabilidad server", "port", cfg.Port, "backend", store.Name)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		cancel()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
