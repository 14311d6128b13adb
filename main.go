package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todo-api/config"
	"todo-api/logging"
	"todo-api/server"
	"todo-api/storage"
	"todo-api/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "todo-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	shutdownTracing, err := telemetry.Setup(ctx, logging.Prefix, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("flush traces", "err", err)
		}
	}()

	// The table client is built once and shared by every request.
	table, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s table: %w", cfg.Backend, err)
	}
	defer func() {
		if err := table.Close(); err != nil {
			logger.Warn("close table", "err", err)
		}
	}()
	logger.Info("storage ready", "backend", cfg.Backend, "table", cfg.TableName)

	srv, err := server.New(cfg, table, logger)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}
