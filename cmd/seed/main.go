// Package main provides a CLI for seeding a local development catalog
// with generated sample puzzles for every game type.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/puzzlebox-games/puzzlebox/internal/seed"
	"github.com/puzzlebox-games/puzzlebox/internal/seed/generator"
)

func main() {
	cfg := seed.DefaultConfig()
	var preset string
	var list bool

	flag.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "catalog database path")
	flag.StringVar(&preset, "preset", string(cfg.Preset), "generation preset (demo, variety, daily-week, stress-test)")
	flag.Int64Var(&cfg.Seed, "seed", 0, "random seed for reproducibility (0 = random)")
	flag.IntVar(&cfg.PerType, "per-type", 0, "puzzles per game type (0 = use preset default)")
	flag.StringVar(&cfg.Date, "date", "", "first daily date as YYYY-MM-DD (default: today)")
	flag.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	flag.BoolVar(&list, "list", false, "list available presets")
	flag.Parse()

	if list {
		fmt.Println("Available presets:")
		fmt.Println("  demo        - One easy puzzle per game type plus today's daily board")
		fmt.Println("  variety     - One puzzle per game type per difficulty")
		fmt.Println("  daily-week  - A week of daily boards with room to rotate")
		fmt.Println("  stress-test - 25 puzzles per game type, no daily boards")
		return
	}

	valid := false
	for _, p := range generator.Presets() {
		if generator.Preset(preset) == p {
			valid = true
			break
		}
	}
	if !valid {
		fmt.Fprintf(os.Stderr, "Error: unknown preset %q\n", preset)
		fmt.Fprintf(os.Stderr, "Valid presets: demo, variety, daily-week, stress-test\n")
		os.Exit(1)
	}
	cfg.Preset = generator.Preset(preset)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := seed.Run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
