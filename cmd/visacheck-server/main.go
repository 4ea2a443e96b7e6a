package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/goliatone/go-visacheck/internal/config"
	"github.com/goliatone/go-visacheck/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := server.NewLogger(cfg.LogLevel, os.Stdout)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
	logger.Info("server stopped")
}
