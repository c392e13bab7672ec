// Package app is helper for simple cli apps.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
)

// Run calls run with development logger and context that is canceled on
// interrupt, exiting with code 2 on error.
func Run(run func(ctx context.Context, lg *zap.Logger) error) {
	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, lg, os.Stderr, run)
	cancel()

	if code != 0 {
		os.Exit(code)
	}
}

// execute calls run and returns exit code. Logger is synced before return.
func execute(ctx context.Context, lg *zap.Logger, stderr io.Writer, run func(ctx context.Context, lg *zap.Logger) error) int {
	defer func() { _ = lg.Sync() }()

	if err := run(ctx, lg); err != nil {
		fmt.Fprintf(stderr, "Error: %+v\n", err)
		return 2
	}
	return 0
}
