// Package main starts the SafeDrive dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/safedrive/dashboard/internal/cmd/safedrive"
	"github.com/safedrive/dashboard/internal/platform/config"
)

func main() {
	cfg, err := safedrive.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := safedrive.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
