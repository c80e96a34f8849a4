package activity

import (
	"context"
	"fmt"
)

// ComputeLeaderboards recomputes the three leaderboard report tables with
// INSERT ... SELECT aggregates pushed down to ClickHouse. Divisions are
// null-guarded so zero populations surface as NULL percentages instead of
// failing the whole insert.
func (c *Context) ComputeLeaderboards(ctx context.Context) error {
	factsDB := c.CovidDB.DatabaseName()
	reportsDB := c.ReportsDB.DatabaseName()

	infectionSQL := fmt.Sprintf(`
		INSERT INTO %s.infection_rates (location, population, highest_infection_count, percent_population_infected, version)
		SELECT
			location,
			population,
			max(total_cases)                                AS highest_infection_count,
			max(total_cases / nullIf(population, 0)) * 100  AS percent_population_infected,
			?                                               AS version
		FROM %s.covid_deaths FINAL
		WHERE continent IS NOT NULL
		GROUP BY location, population
	`, reportsDB, factsDB)

	deathCountSQL := fmt.Sprintf(`
		INSERT INTO %s.death_counts (location, population, total_death_count, version)
		SELECT
			location,
			population,
			max(total_deaths) AS total_death_count,
			?                 AS version
		FROM %s.covid_deaths FINAL
		WHERE continent IS NOT NULL
		GROUP BY location, population
	`, reportsDB, factsDB)

	continentSQL := fmt.Sprintf(`
		INSERT INTO %s.continent_death_counts (continent, total_death_count, version)
		SELECT
			assumeNotNull(continent) AS continent,
			max(total_deaths)        AS total_death_count,
			?                        AS version
		FROM %s.covid_deaths FINAL
		WHERE continent IS NOT NULL
		GROUP BY continent
	`, reportsDB, factsDB)

	v := version()
	for name, query := range map[string]string{
		"infection_rates":        infectionSQL,
		"death_counts":           deathCountSQL,
		"continent_death_counts": continentSQL,
	} {
		if err := c.CovidDB.Exec(ctx, query, v); err != nil {
			return fmt.Errorf("recompute %s: %w", name, err)
		}
	}

	c.Logger.Info("Leaderboard reports recomputed")
	return nil
}
