package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"vaccine-slot-scraper/config"
	"vaccine-slot-scraper/services"
	"vaccine-slot-scraper/utils"

	"go.uber.org/fx"
)

// Usage:
//
//	vaccine-slot-scraper            full scrape, publishes every région
//	vaccine-slot-scraper URL...     fetches the given booking URLs only
func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	var runner *services.Runner
	app := fx.New(
		fx.Supply(cfg, logger),
		fx.NopLogger,
		Module,
		fx.Populate(&runner),
	)
	if err := app.Err(); err != nil {
		utils.Error("Could not build the scraper: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := app.Start(ctx); err != nil {
		stop()
		utils.Error("Could not start the scraper: %v", err)
		os.Exit(1)
	}

	code := run(ctx, runner, os.Args[1:])
	stop()

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := app.Stop(stopCtx); err != nil {
		utils.Warn("Shutdown incomplete: %v", err)
	}
	cancel()

	os.Exit(code)
}

func run(ctx context.Context, runner *services.Runner, urls []string) int {
	if len(urls) > 0 {
		runner.Debug(ctx, urls)
		return 0
	}

	code, err := runner.Run(ctx)
	if err != nil {
		utils.Error("Publishing failed: %+v", err)
		return int(code)
	}
	utils.Info("Run finished: %s", code)
	return int(code)
}
