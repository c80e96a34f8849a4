package db

import (
	"context"
	"fmt"
)

// InfectionRateRow is one live leaderboard row: the highest observed case
// count per location and the share of its population that represents.
type InfectionRateRow struct {
	Location                  string   `json:"location" ch:"location"`
	Population                uint64   `json:"population" ch:"population"`
	HighestInfectionCount     *float64 `json:"highest_infection_count,omitempty" ch:"highest_infection_count"`
	PercentPopulationInfected *float64 `json:"percent_population_infected,omitempty" ch:"percent_population_infected"`
}

// DeathCountRow is one live leaderboard row: the highest observed death count per location.
type DeathCountRow struct {
	Location        string   `json:"location" ch:"location"`
	Population      uint64   `json:"population" ch:"population"`
	TotalDeathCount *float64 `json:"total_death_count,omitempty" ch:"total_death_count"`
}

// ContinentDeathCountRow is the per-continent variant of DeathCountRow.
type ContinentDeathCountRow struct {
	Continent       string   `json:"continent" ch:"continent"`
	TotalDeathCount *float64 `json:"total_death_count,omitempty" ch:"total_death_count"`
}

// GlobalTotalsRow is the live all-time summary across every country-level row.
type GlobalTotalsRow struct {
	TotalCases      float64  `json:"total_cases" ch:"total_cases"`
	TotalDeaths     float64  `json:"total_deaths" ch:"total_deaths"`
	DeathPercentage *float64 `json:"death_percentage,omitempty" ch:"death_percentage"`
}

// GetInfectionRates returns the infection-rate leaderboard sorted by
// percentage descending. Division is null-guarded so a zero population
// yields a NULL percentage instead of failing the query.
func (db *CovidDB) GetInfectionRates(ctx context.Context) ([]InfectionRateRow, error) {
	query := fmt.Sprintf(`
		SELECT
			location,
			population,
			max(total_cases) AS highest_infection_count,
			max(total_cases / nullIf(population, 0)) * 100 AS percent_population_infected
		FROM "%s"."covid_deaths" FINAL
		WHERE continent IS NOT NULL
		GROUP BY location, population
		ORDER BY percent_population_infected DESC NULLS LAST
	`, db.Name)

	var rows []InfectionRateRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query infection rates failed: %w", err)
	}
	return rows, nil
}

// GetDeathCounts returns the per-country death-count leaderboard sorted descending.
func (db *CovidDB) GetDeathCounts(ctx context.Context) ([]DeathCountRow, error) {
	query := fmt.Sprintf(`
		SELECT
			location,
			population,
			max(total_deaths) AS total_death_count
		FROM "%s"."covid_deaths" FINAL
		WHERE continent IS NOT NULL
		GROUP BY location, population
		ORDER BY total_death_count DESC NULLS LAST
	`, db.Name)

	var rows []DeathCountRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query death counts failed: %w", err)
	}
	return rows, nil
}

// GetContinentDeathCounts returns the per-continent death-count leaderboard
// sorted descending.
func (db *CovidDB) GetContinentDeathCounts(ctx context.Context) ([]ContinentDeathCountRow, error) {
	query := fmt.Sprintf(`
		SELECT
			assumeNotNull(continent) AS continent,
			max(total_deaths) AS total_death_count
		FROM "%s"."covid_deaths" FINAL
		WHERE continent IS NOT NULL
		GROUP BY continent
		ORDER BY total_death_count DESC NULLS LAST
	`, db.Name)

	var rows []ContinentDeathCountRow
	if err := db.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query continent death counts failed: %w", err)
	}
	return rows, nil
}

// GetGlobalTotals returns the all-time global summary.
func (db *CovidDB) GetGlobalTotals(ctx context.Context) (*GlobalTotalsRow, error) {
	query := fmt.Sprintf(`
		SELECT
			sum(coalesce(new_cases, 0)) AS total_cases,
			sum(coalesce(new_deaths, 0)) AS total_deaths,
			sum(coalesce(new_deaths, 0)) / nullIf(sum(coalesce(new_cases, 0)), 0) * 100 AS death_percentage
		FROM "%s"."covid_deaths" FINAL
		WHERE continent IS NOT NULL
	`, db.Name)

	var row GlobalTotalsRow
	if err := db.QueryRow(ctx, query).Scan(&row.TotalCases, &row.TotalDeaths, &row.DeathPercentage); err != nil {
		return nil, fmt.Errorf("query global totals failed: %w", err)
	}
	return &row, nil
}
