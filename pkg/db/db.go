package db

import (
	"context"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/db/clickhouse"
	"github.com/Rohan-1103/covidx/pkg/utils"
)

func covidDbName() string {
	return utils.Env("COVID_DB", "covidx_facts")
}

func reportsDbName() string {
	return utils.Env("REPORTS_DB", "covidx_reports")
}

// NewBasicDbs creates and returns the facts and reports database wrappers,
// ensuring both schemas exist.
func NewBasicDbs(ctx context.Context, logger *zap.Logger) (*CovidDB, *ReportsDB, error) {
	logger.Info("Creating databases",
		zap.String("covidDbName", covidDbName()),
		zap.String("reportsDbName", reportsDbName()))

	covidDb, covidDbErr := NewCovidDb(ctx, logger)
	if covidDbErr != nil {
		return nil, nil, covidDbErr
	}

	reportsDb, reportsDbErr := NewReportsDb(ctx, logger)
	if reportsDbErr != nil {
		return nil, nil, reportsDbErr
	}

	return covidDb, reportsDb, nil
}

// NewReportsDb creates the reports database wrapper and ensures its schema exists.
func NewReportsDb(ctx context.Context, logger *zap.Logger) (*ReportsDB, error) {
	dbName := clickhouse.SanitizeName(reportsDbName())

	client, err := clickhouse.New(ctx, logger.With(zap.String("db", dbName)), dbName)
	if err != nil {
		return nil, err
	}

	reportsDb := &ReportsDB{
		Client: client,
		Name:   dbName,
	}

	if err := reportsDb.InitializeDB(ctx); err != nil {
		return nil, err
	}

	return reportsDb, nil
}
