// Package query serves the computed tables over a JSON HTTP API for
// dashboard consumers.
package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/app/query/types"
	"github.com/Rohan-1103/covidx/pkg/db"
	"github.com/Rohan-1103/covidx/pkg/logging"
	"github.com/Rohan-1103/covidx/pkg/redis"
	"github.com/Rohan-1103/covidx/pkg/utils"
)

// Initialize initializes the application.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	covidDb, reportsDb, basicDbsErr := db.NewBasicDbs(ctx, logger)
	if basicDbsErr != nil {
		logger.Fatal("Unable to initialize basic databases", zap.Error(basicDbsErr))
	}

	app := &types.App{
		CovidDB:   covidDb,
		ReportsDB: reportsDb,
		Logger:    logger,
	}

	// The cache is advisory: a missing Redis degrades to uncached reads.
	if utils.Env("REDIS_CACHE", "on") == "on" {
		cache, cacheErr := redis.NewClient(ctx, logger)
		if cacheErr != nil {
			logger.Warn("Redis unavailable, serving uncached", zap.Error(cacheErr))
		} else {
			app.Cache = cache
		}
	}

	if err := NewServer(app); err != nil {
		logger.Fatal("Unable to set up HTTP server", zap.Error(err))
	}

	return app
}
