package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-visacheck/internal/cli"
	"github.com/goliatone/go-visacheck/pkg/orchestrator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Out:      os.Stdout,
		Err:      os.Stderr,
		Prompter: cli.SurveyPrompter{},
	}
	err := app.Run(ctx, os.Args[1:])
	switch {
	case err == nil:
		return
	case errors.Is(err, cli.ErrInterrupted), errors.Is(err, context.Canceled):
		os.Exit(130)
	case errors.Is(err, cli.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	case errors.Is(err, orchestrator.ErrInvalidSubmission):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "visacheck: %v\n", err)
		os.Exit(1)
	}
}
