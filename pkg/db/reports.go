package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Rohan-1103/covidx/pkg/db/clickhouse"
	"github.com/Rohan-1103/covidx/pkg/db/models/reports"
)

// ReportsDB represents the database holding the materialized report tables
// the reporter recomputes on a schedule. Every table is a
// ReplacingMergeTree keyed on a version column, so a full recompute simply
// supersedes the previous run.
type ReportsDB struct {
	clickhouse.Client
	Name string
}

// DatabaseName returns the reports database name.
func (db *ReportsDB) DatabaseName() string {
	return db.Name
}

// Close terminates the underlying ClickHouse connection.
func (db *ReportsDB) Close() error {
	return db.Db.Close()
}

// Ping verifies the underlying connection is alive.
func (db *ReportsDB) Ping(ctx context.Context) error {
	return db.Db.Ping(ctx)
}

// InitializeDB creates the report tables using raw SQL.
func (db *ReportsDB) InitializeDB(ctx context.Context) error {
	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("failed to create database %s: %w", db.Name, err)
	}

	tables := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."rolling_vaccinations" (
				continent String,
				location String,
				date Date,
				population UInt64,
				new_vaccinations Nullable(Float64),
				rolling_people_vaccinated Float64,
				percent_vaccinated Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY (location, date)
		`, db.Name),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."infection_rates" (
				location String,
				population UInt64,
				highest_infection_count Nullable(Float64),
				percent_population_infected Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY (location)
		`, db.Name),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."death_counts" (
				location String,
				population UInt64,
				total_death_count Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY (location)
		`, db.Name),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."continent_death_counts" (
				continent String,
				total_death_count Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY (continent)
		`, db.Name),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."global_daily" (
				date Date,
				total_cases Float64,
				total_deaths Float64,
				death_percentage Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY (date)
		`, db.Name),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS "%s"."global_totals" (
				asof DateTime,
				total_cases Float64,
				total_deaths Float64,
				death_percentage Nullable(Float64),
				version UInt64
			) ENGINE = ReplacingMergeTree(version)
			ORDER BY tuple()
		`, db.Name),
	}

	for _, query := range tables {
		if err := db.Exec(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

// InsertRollingVaccinations batch-inserts one recompute run of the rolling
// vaccination report. All rows of a run share the same version.
func (db *ReportsDB) InsertRollingVaccinations(ctx context.Context, rows []*reports.RollingVaccination) error {
	if len(rows) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s".rolling_vaccinations (
		continent, location, date, population,
		new_vaccinations, rolling_people_vaccinated, percent_vaccinated, version
	) VALUES`, db.Name)

	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, r := range rows {
		err = batch.Append(
			r.Continent,
			r.Location,
			r.Date,
			r.Population,
			r.NewVaccinations,
			r.RollingPeopleVaccinated,
			r.PercentVaccinated,
			r.Version,
		)
		if err != nil {
			return fmt.Errorf("append rolling vaccination row %s %s: %w", r.Location, r.Date, err)
		}
	}

	return batch.Send()
}

// GetRollingVaccinations returns deduped rolling vaccination rows ordered
// by location then date, paginated by limit/offset.
func (db *ReportsDB) GetRollingVaccinations(ctx context.Context, limit, offset int) ([]reports.RollingVaccination, error) {
	query := fmt.Sprintf(`
		SELECT continent, location, date, population,
		       new_vaccinations, rolling_people_vaccinated, percent_vaccinated, version
		FROM "%s".rolling_vaccinations FINAL
		ORDER BY location, date
		LIMIT ? OFFSET ?
	`, db.Name)

	var rows []reports.RollingVaccination
	if err := db.Select(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("get rolling vaccinations: %w", err)
	}
	return rows, nil
}

// GetInfectionRates returns the materialized infection-rate leaderboard
// sorted by percentage descending.
func (db *ReportsDB) GetInfectionRates(ctx context.Context) ([]reports.InfectionRate, error) {
	query := fmt.Sprintf(`
		SELECT location, population, highest_infection_count, percent_population_infected, version
		FROM "%s".infection_rates FINAL
		ORDER BY percent_population_infected DESC NULLS LAST
	`, db.Name)

	var rows []reports.InfectionRate
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get infection rates: %w", err)
	}
	return rows, nil
}

// GetDeathCounts returns the materialized per-country death-count
// leaderboard sorted descending.
func (db *ReportsDB) GetDeathCounts(ctx context.Context) ([]reports.DeathCount, error) {
	query := fmt.Sprintf(`
		SELECT location, population, total_death_count, version
		FROM "%s".death_counts FINAL
		ORDER BY total_death_count DESC NULLS LAST
	`, db.Name)

	var rows []reports.DeathCount
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get death counts: %w", err)
	}
	return rows, nil
}

// GetContinentDeathCounts returns the materialized per-continent
// death-count leaderboard sorted descending.
func (db *ReportsDB) GetContinentDeathCounts(ctx context.Context) ([]reports.ContinentDeathCount, error) {
	query := fmt.Sprintf(`
		SELECT continent, total_death_count, version
		FROM "%s".continent_death_counts FINAL
		ORDER BY total_death_count DESC NULLS LAST
	`, db.Name)

	var rows []reports.ContinentDeathCount
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get continent death counts: %w", err)
	}
	return rows, nil
}

// GetGlobalTotals returns the materialized all-time summary, or nil when no
// recompute has run yet.
func (db *ReportsDB) GetGlobalTotals(ctx context.Context) (*reports.GlobalTotals, error) {
	query := fmt.Sprintf(`
		SELECT asof, total_cases, total_deaths, death_percentage, version
		FROM "%s".global_totals FINAL
		LIMIT 1
	`, db.Name)

	var rows []reports.GlobalTotals
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("get global totals: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// GetGlobalDaily returns the deduped daily global summary ordered by date.
func (db *ReportsDB) GetGlobalDaily(ctx context.Context, limit int) ([]reports.GlobalDaily, error) {
	query := fmt.Sprintf(`
		SELECT date, total_cases, total_deaths, death_percentage, version
		FROM "%s".global_daily FINAL
		ORDER BY date
		LIMIT ?
	`, db.Name)

	var rows []reports.GlobalDaily
	if err := db.Select(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get global daily: %w", err)
	}
	return rows, nil
}
