package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thiefmaster/levelremote/apis"
	"github.com/thiefmaster/levelremote/logging"
	"github.com/thiefmaster/levelremote/server"
	"github.com/thiefmaster/levelremote/session"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v\n", err)
	}

	logs, err := logging.New(os.Stderr, logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("could not set up logging: %v\n", err)
	}
	defer logs.Close()
	logger := logs.Logger

	device, err := apis.New(cfg.Device, logger)
	if err != nil {
		logger.Error("could not set up device controller", "backend", cfg.Device, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("received shutdown signal, closing server gracefully")
	}()

	if err := newSupervisor(cfg, device, logger).Run(ctx); err != nil {
		if errors.Is(err, server.ErrNoAddress) {
			logger.Error("no address to serve on", "error", err)
		} else {
			logger.Error("server failed", "error", err)
		}
		logs.Close()
		os.Exit(1)
	}
}

func newSupervisor(cfg appConfig, device session.DeviceController, logger *slog.Logger) *server.Supervisor {
	handler := session.New(device, logger)
	return &server.Supervisor{
		Resolve: func() (string, error) {
			return cfg.bindAddress(localIPv4)
		},
		Listen: func(addr string) (server.Listener, error) {
			return server.Listen(addr, cfg.Path, handler, logger)
		},
		Heartbeat: cfg.Heartbeat,
		Backoff:   cfg.RestartBackoff,
		Logger:    logger,
	}
}
