package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Rohan-1103/covidx/app/query"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app := query.Initialize(ctx)

	app.Start(ctx)
}
