package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/app/ingester"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app := ingester.Initialize(ctx)

	if err := app.Run(ctx); err != nil {
		app.Logger.Error("Ingest failed", zap.Error(err))
		app.Stop()
		os.Exit(1)
	}

	app.Stop()
}
