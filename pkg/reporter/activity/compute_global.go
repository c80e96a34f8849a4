package activity

import (
	"context"
	"fmt"
)

// ComputeGlobalSummary recomputes the daily and all-time global summary
// report tables. A day with zero reported cases keeps a NULL death
// percentage rather than aborting the insert.
func (c *Context) ComputeGlobalSummary(ctx context.Context) error {
	factsDB := c.CovidDB.DatabaseName()
	reportsDB := c.ReportsDB.DatabaseName()

	dailySQL := fmt.Sprintf(`
		INSERT INTO %s.global_daily (date, total_cases, total_deaths, death_percentage, version)
		SELECT
			date,
			sum(coalesce(new_cases, 0))   AS total_cases,
			sum(coalesce(new_deaths, 0))  AS total_deaths,
			sum(coalesce(new_deaths, 0)) / nullIf(sum(coalesce(new_cases, 0)), 0) * 100 AS death_percentage,
			? AS version
		FROM %s.covid_deaths FINAL
		WHERE continent IS NOT NULL
		GROUP BY date
		ORDER BY date
	`, reportsDB, factsDB)

	totalsSQL := fmt.Sprintf(`
		INSERT INTO %s.global_totals (asof, total_cases, total_deaths, death_percentage, version)
		SELECT
			now()                         AS asof,
			sum(coalesce(new_cases, 0))   AS total_cases,
			sum(coalesce(new_deaths, 0))  AS total_deaths,
			sum(coalesce(new_deaths, 0)) / nullIf(sum(coalesce(new_cases, 0)), 0) * 100 AS death_percentage,
			? AS version
		FROM %s.covid_deaths FINAL
		WHERE continent IS NOT NULL
	`, reportsDB, factsDB)

	v := version()
	if err := c.CovidDB.Exec(ctx, dailySQL, v); err != nil {
		return fmt.Errorf("recompute global_daily: %w", err)
	}
	if err := c.CovidDB.Exec(ctx, totalsSQL, v); err != nil {
		return fmt.Errorf("recompute global_totals: %w", err)
	}

	c.Logger.Info("Global summary reports recomputed")
	return nil
}
