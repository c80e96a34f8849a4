package activity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/db/transform"
	"github.com/Rohan-1103/covidx/pkg/rollup"
)

// ComputeRollingVaccinations recomputes the rolling_vaccinations report:
// it reads both fact tables, runs the per-location running sum in memory
// (fanned out across locations), and batch-inserts the versioned result.
func (c *Context) ComputeRollingVaccinations(ctx context.Context) error {
	deaths, err := c.CovidDB.SelectDeathRecords(ctx)
	if err != nil {
		return fmt.Errorf("load death records: %w", err)
	}

	vaccinations, err := c.CovidDB.SelectVaccinationRecords(ctx)
	if err != nil {
		return fmt.Errorf("load vaccination records: %w", err)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}

	rows, err := rollup.ComputeParallel(ctx,
		transform.ToRollupDeaths(deaths),
		transform.ToRollupVaccinations(vaccinations),
		workers,
	)
	if err != nil {
		return fmt.Errorf("compute rolling vaccinations: %w", err)
	}

	v := version()
	if err := c.ReportsDB.InsertRollingVaccinations(ctx, transform.FromRollingRows(rows, v)); err != nil {
		return fmt.Errorf("insert rolling vaccinations: %w", err)
	}

	c.Logger.Info("Rolling vaccination report recomputed",
		zap.Int("input_deaths", len(deaths)),
		zap.Int("input_vaccinations", len(vaccinations)),
		zap.Int("output_rows", len(rows)),
		zap.Uint64("version", v))

	return nil
}
