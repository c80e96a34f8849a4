package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Rohan-1103/covidx/app/reporter"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app, err := reporter.Initialize(ctx)
	if err != nil {
		panic(err)
	}

	app.Start(ctx)
}
