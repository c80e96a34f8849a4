package types

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/db"
	"github.com/Rohan-1103/covidx/pkg/redis"
)

type App struct {
	CovidDB   db.CovidStore
	ReportsDB db.ReportsStore

	// Cache is an optional response cache; a nil cache means every request
	// goes to ClickHouse.
	Cache *redis.Client

	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests and manage HTTP routes.
	Server *http.Server
}

// Start starts the application.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.ReportsDB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
	if err := a.CovidDB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}

	_ = a.Server.Shutdown(shutdownCtx)
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}
