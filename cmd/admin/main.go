// Package main provides the authoring CLI: validate, import, schedule,
// dictionary, and diagnose verbs over the puzzle catalog and services.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/puzzlebox-games/puzzlebox/internal/platform/config"
	"github.com/puzzlebox-games/puzzlebox/internal/tools/admin"
)

func main() {
	cfg, err := admin.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := admin.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
