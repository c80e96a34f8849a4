// Package ingester loads the two covid CSV exports into the facts database
// and exits. Both files are parsed and inserted in parallel; per-row
// data-quality errors are reported, never fatal.
package ingester

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/csvload"
	"github.com/Rohan-1103/covidx/pkg/db"
	covidmodels "github.com/Rohan-1103/covidx/pkg/db/models/covid"
	"github.com/Rohan-1103/covidx/pkg/logging"
	"github.com/Rohan-1103/covidx/pkg/utils"
)

const insertBatchSize = 10000

type App struct {
	CovidDB *db.CovidDB
	Logger  *zap.Logger

	DeathsPath       string
	VaccinationsPath string
}

// Initialize initializes the application.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	covidDb, covidDbErr := db.NewCovidDb(ctx, logger)
	if covidDbErr != nil {
		logger.Fatal("Unable to initialize facts database", zap.Error(covidDbErr))
	}

	return &App{
		CovidDB:          covidDb,
		Logger:           logger,
		DeathsPath:       utils.Env("COVID_DEATHS_CSV", "CovidDeaths.csv"),
		VaccinationsPath: utils.Env("COVID_VACCINATIONS_CSV", "CovidVaccination.csv"),
	}
}

// Run loads both CSV files in parallel and reports data-quality errors.
func (a *App) Run(ctx context.Context) error {
	pool := pond.NewPool(2)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	var deathsErr, vaccinationsErr error

	group.Submit(func() {
		if err := groupCtx.Err(); err != nil {
			return
		}
		deathsErr = a.loadDeaths(groupCtx)
	})
	group.Submit(func() {
		if err := groupCtx.Err(); err != nil {
			return
		}
		vaccinationsErr = a.loadVaccinations(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, pond.ErrGroupStopped) {
		return err
	}
	if deathsErr != nil {
		return fmt.Errorf("load deaths: %w", deathsErr)
	}
	if vaccinationsErr != nil {
		return fmt.Errorf("load vaccinations: %w", vaccinationsErr)
	}
	return nil
}

func (a *App) loadDeaths(ctx context.Context) error {
	records, rowErrors, err := csvload.LoadDeaths(a.DeathsPath)
	if err != nil {
		return err
	}
	a.reportRowErrors(a.DeathsPath, rowErrors)

	models := make([]*covidmodels.DeathRecord, 0, len(records))
	for i := range records {
		r := records[i]
		models = append(models, &covidmodels.DeathRecord{
			Continent:   r.Continent,
			Location:    r.Location,
			Date:        r.Date,
			Population:  r.Population,
			TotalCases:  r.TotalCases,
			NewCases:    r.NewCases,
			TotalDeaths: r.TotalDeaths,
			NewDeaths:   r.NewDeaths,
		})
	}

	for start := 0; start < len(models); start += insertBatchSize {
		end := min(start+insertBatchSize, len(models))
		if err := a.CovidDB.InsertDeathRecords(ctx, models[start:end]); err != nil {
			return err
		}
	}

	a.Logger.Info("Death records loaded",
		zap.String("file", a.DeathsPath),
		zap.Int("rows", len(models)),
		zap.Int("row_errors", len(rowErrors)))
	return nil
}

func (a *App) loadVaccinations(ctx context.Context) error {
	records, rowErrors, err := csvload.LoadVaccinations(a.VaccinationsPath)
	if err != nil {
		return err
	}
	a.reportRowErrors(a.VaccinationsPath, rowErrors)

	models := make([]*covidmodels.VaccinationRecord, 0, len(records))
	for i := range records {
		r := records[i]
		models = append(models, &covidmodels.VaccinationRecord{
			Location:        r.Location,
			Date:            r.Date,
			NewVaccinations: r.NewVaccinations,
		})
	}

	for start := 0; start < len(models); start += insertBatchSize {
		end := min(start+insertBatchSize, len(models))
		if err := a.CovidDB.InsertVaccinationRecords(ctx, models[start:end]); err != nil {
			return err
		}
	}

	a.Logger.Info("Vaccination records loaded",
		zap.String("file", a.VaccinationsPath),
		zap.Int("rows", len(models)),
		zap.Int("row_errors", len(rowErrors)))
	return nil
}

// reportRowErrors surfaces unparseable cells to the operator. The rows stay
// loaded with those cells treated as missing.
func (a *App) reportRowErrors(file string, rowErrors []csvload.RowError) {
	for _, re := range rowErrors {
		a.Logger.Warn("Data quality error", zap.String("file", file), zap.String("detail", re.Error()))
	}
}

// Stop closes connections.
func (a *App) Stop() {
	if err := a.CovidDB.Close(); err != nil {
		a.Logger.Error("Failed to close database connection", zap.Error(err))
	}
}
