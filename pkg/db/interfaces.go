package db

import (
	"context"

	covidmodels "github.com/Rohan-1103/covidx/pkg/db/models/covid"
	"github.com/Rohan-1103/covidx/pkg/db/models/reports"
)

// CovidStore exposes the facts database operations used by the ingester,
// the reporter activities and the query controllers.
type CovidStore interface {
	DatabaseName() string
	Ping(ctx context.Context) error
	InsertDeathRecords(ctx context.Context, records []*covidmodels.DeathRecord) error
	InsertVaccinationRecords(ctx context.Context, records []*covidmodels.VaccinationRecord) error
	SelectDeathRecords(ctx context.Context) ([]covidmodels.DeathRecord, error)
	SelectDeathRecordsByLocation(ctx context.Context, location string) ([]covidmodels.DeathRecord, error)
	SelectVaccinationRecords(ctx context.Context) ([]covidmodels.VaccinationRecord, error)
	SelectVaccinationRecordsByLocation(ctx context.Context, location string) ([]covidmodels.VaccinationRecord, error)
	GetInfectionRates(ctx context.Context) ([]InfectionRateRow, error)
	GetDeathCounts(ctx context.Context) ([]DeathCountRow, error)
	GetContinentDeathCounts(ctx context.Context) ([]ContinentDeathCountRow, error)
	GetGlobalTotals(ctx context.Context) (*GlobalTotalsRow, error)
	Exec(ctx context.Context, query string, args ...any) error
	Close() error
}

// ReportsStore exposes the reports database helpers referenced by reporter
// activities and query controllers.
type ReportsStore interface {
	DatabaseName() string
	Ping(ctx context.Context) error
	InsertRollingVaccinations(ctx context.Context, rows []*reports.RollingVaccination) error
	GetRollingVaccinations(ctx context.Context, limit, offset int) ([]reports.RollingVaccination, error)
	GetInfectionRates(ctx context.Context) ([]reports.InfectionRate, error)
	GetDeathCounts(ctx context.Context) ([]reports.DeathCount, error)
	GetContinentDeathCounts(ctx context.Context) ([]reports.ContinentDeathCount, error)
	GetGlobalTotals(ctx context.Context) (*reports.GlobalTotals, error)
	GetGlobalDaily(ctx context.Context, limit int) ([]reports.GlobalDaily, error)
	Exec(ctx context.Context, query string, args ...any) error
	Close() error
}
