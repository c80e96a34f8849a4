package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/db/clickhouse"
	covidmodels "github.com/Rohan-1103/covidx/pkg/db/models/covid"
)

// CovidDB represents the database holding the two covid fact tables and the
// percent_population_vaccinated view read directly by BI tools.
type CovidDB struct {
	clickhouse.Client
	Name string
}

// DatabaseName returns the facts database name.
func (db *CovidDB) DatabaseName() string {
	return db.Name
}

// Close terminates the underlying ClickHouse connection.
func (db *CovidDB) Close() error {
	return db.Db.Close()
}

// Ping verifies the underlying connection is alive.
func (db *CovidDB) Ping(ctx context.Context) error {
	return db.Db.Ping(ctx)
}

// InitializeDB creates the facts database, both fact tables and the
// rolling-vaccination view. The ReplacingMergeTree key (location, date)
// enforces at most one record per location and date.
func (db *CovidDB) InitializeDB(ctx context.Context) error {
	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("failed to create database %s: %w", db.Name, err)
	}

	deathsSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."covid_deaths" (
			continent Nullable(String),
			location String,
			date Date,
			population UInt64 DEFAULT 0,
			total_cases Nullable(Float64),
			new_cases Nullable(Float64),
			total_deaths Nullable(Float64),
			new_deaths Nullable(Float64)
		) ENGINE = ReplacingMergeTree
		ORDER BY (location, date)
	`, db.Name)
	if err := db.Exec(ctx, deathsSQL); err != nil {
		return fmt.Errorf("create covid_deaths: %w", err)
	}

	vaccinationsSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."covid_vaccinations" (
			location String,
			date Date,
			new_vaccinations Nullable(Float64)
		) ENGINE = ReplacingMergeTree
		ORDER BY (location, date)
	`, db.Name)
	if err := db.Exec(ctx, vaccinationsSQL); err != nil {
		return fmt.Errorf("create covid_vaccinations: %w", err)
	}

	return db.initPercentPopulationVaccinatedView(ctx)
}

// initPercentPopulationVaccinatedView creates the view BI dashboards read:
// the inner join of the fact tables with a per-location running sum of new
// vaccinations, ordered by location then date.
func (db *CovidDB) initPercentPopulationVaccinatedView(ctx context.Context) error {
	viewSQL := fmt.Sprintf(`
		CREATE VIEW IF NOT EXISTS "%s"."percent_population_vaccinated" AS
		SELECT
			d.continent AS continent,
			d.location AS location,
			d.date AS date,
			d.population AS population,
			v.new_vaccinations AS new_vaccinations,
			sum(coalesce(v.new_vaccinations, 0))
				OVER (PARTITION BY d.location ORDER BY d.date) AS rolling_people_vaccinated,
			sum(coalesce(v.new_vaccinations, 0))
				OVER (PARTITION BY d.location ORDER BY d.date)
				/ nullIf(d.population, 0) * 100 AS percent_vaccinated
		FROM "%s"."covid_deaths" AS d
		INNER JOIN "%s"."covid_vaccinations" AS v
			ON d.location = v.location AND d.date = v.date
		WHERE d.continent IS NOT NULL
		ORDER BY location, date
	`, db.Name, db.Name, db.Name)
	if err := db.Exec(ctx, viewSQL); err != nil {
		return fmt.Errorf("create percent_population_vaccinated view: %w", err)
	}
	return nil
}

// InsertDeathRecords batch-inserts death records.
func (db *CovidDB) InsertDeathRecords(ctx context.Context, records []*covidmodels.DeathRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s".covid_deaths (
		continent, location, date, population,
		total_cases, new_cases, total_deaths, new_deaths
	) VALUES`, db.Name)

	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, r := range records {
		err = batch.Append(
			r.Continent,
			r.Location,
			r.Date,
			r.Population,
			r.TotalCases,
			r.NewCases,
			r.TotalDeaths,
			r.NewDeaths,
		)
		if err != nil {
			return fmt.Errorf("append death record %s %s: %w", r.Location, r.Date, err)
		}
	}

	return batch.Send()
}

// InsertVaccinationRecords batch-inserts vaccination records.
func (db *CovidDB) InsertVaccinationRecords(ctx context.Context, records []*covidmodels.VaccinationRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s".covid_vaccinations (
		location, date, new_vaccinations
	) VALUES`, db.Name)

	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, r := range records {
		if err = batch.Append(r.Location, r.Date, r.NewVaccinations); err != nil {
			return fmt.Errorf("append vaccination record %s %s: %w", r.Location, r.Date, err)
		}
	}

	return batch.Send()
}

// SelectDeathRecords returns every deduped death record, ordered by
// location then date so downstream aggregation is deterministic.
func (db *CovidDB) SelectDeathRecords(ctx context.Context) ([]covidmodels.DeathRecord, error) {
	query := fmt.Sprintf(`
		SELECT continent, location, date, population,
		       total_cases, new_cases, total_deaths, new_deaths
		FROM "%s".covid_deaths FINAL
		ORDER BY location, date
	`, db.Name)

	var rows []covidmodels.DeathRecord
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select death records: %w", err)
	}
	return rows, nil
}

// SelectDeathRecordsByLocation returns the deduped death records for one location.
func (db *CovidDB) SelectDeathRecordsByLocation(ctx context.Context, location string) ([]covidmodels.DeathRecord, error) {
	query := fmt.Sprintf(`
		SELECT continent, location, date, population,
		       total_cases, new_cases, total_deaths, new_deaths
		FROM "%s".covid_deaths FINAL
		WHERE location = ?
		ORDER BY date
	`, db.Name)

	var rows []covidmodels.DeathRecord
	if err := db.Select(ctx, &rows, query, location); err != nil {
		return nil, fmt.Errorf("select death records for %s: %w", location, err)
	}
	return rows, nil
}

// SelectVaccinationRecords returns every deduped vaccination record.
func (db *CovidDB) SelectVaccinationRecords(ctx context.Context) ([]covidmodels.VaccinationRecord, error) {
	query := fmt.Sprintf(`
		SELECT location, date, new_vaccinations
		FROM "%s".covid_vaccinations FINAL
		ORDER BY location, date
	`, db.Name)

	var rows []covidmodels.VaccinationRecord
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select vaccination records: %w", err)
	}
	return rows, nil
}

// SelectVaccinationRecordsByLocation returns the deduped vaccination records for one location.
func (db *CovidDB) SelectVaccinationRecordsByLocation(ctx context.Context, location string) ([]covidmodels.VaccinationRecord, error) {
	query := fmt.Sprintf(`
		SELECT location, date, new_vaccinations
		FROM "%s".covid_vaccinations FINAL
		WHERE location = ?
		ORDER BY date
	`, db.Name)

	var rows []covidmodels.VaccinationRecord
	if err := db.Select(ctx, &rows, query, location); err != nil {
		return nil, fmt.Errorf("select vaccination records for %s: %w", location, err)
	}
	return rows, nil
}

// NewCovidDb creates the facts database wrapper and ensures its schema exists.
func NewCovidDb(ctx context.Context, logger *zap.Logger) (*CovidDB, error) {
	dbName := clickhouse.SanitizeName(covidDbName())

	client, err := clickhouse.New(ctx, logger.With(zap.String("db", dbName)), dbName)
	if err != nil {
		return nil, err
	}

	covidDb := &CovidDB{
		Client: client,
		Name:   dbName,
	}

	if err := covidDb.InitializeDB(ctx); err != nil {
		return nil, err
	}

	return covidDb, nil
}
