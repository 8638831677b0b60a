// cmd/insights-cli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"customer-insights/internal/common/config"
	commonhttp "customer-insights/internal/common/http"
	"customer-insights/internal/common/logger"
	"customer-insights/internal/controller"
	recommendation "customer-insights/internal/flows/recommendation"
	segmentlookup "customer-insights/internal/flows/segment-lookup"
	"customer-insights/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Debug("Starting insights console", zap.String("apiBaseURL", cfg.API.BaseURL))

	client := commonhttp.NewClient(config.GetDuration(cfg.API.Timeout), nil)
	view := terminal.NewView(os.Stdout)
	ctrl := controller.New(
		segmentlookup.NewHandler(segmentlookup.LoadConfig(cfg.API), client, log),
		recommendation.NewHandler(recommendation.LoadConfig(cfg.API), client, log),
		view,
		log,
	)
	console := terminal.NewConsole(ctrl, view, os.Stdin, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stdout, "%s %s, type help for commands\n", cfg.App.Name, cfg.App.Version)

	finished := make(chan error, 1)
	go func() { finished <- console.Run(ctx) }()

	select {
	case err := <-finished:
		if err != nil {
			zapLog.Error("console input failed", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		zapLog.Info("Interrupted, exiting")
	}
}
