package rollup

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
)

// DeathRecord is one per-location/per-date row of the deaths fact table.
// A nil Continent marks an aggregate row (e.g. "World", "Europe") that is
// excluded from country-level outputs.
type DeathRecord struct {
	Continent   *string
	Location    string
	Date        time.Time
	Population  uint64
	TotalCases  *float64
	NewCases    *float64
	TotalDeaths *float64
	NewDeaths   *float64
}

// VaccinationRecord is one per-location/per-date row of the vaccinations fact table.
type VaccinationRecord struct {
	Location        string
	Date            time.Time
	NewVaccinations *float64
}

// RollingVaccinationRow is one output row of the rolling aggregation:
// the inner join of the two fact tables with a per-location running sum
// of new vaccinations attached.
type RollingVaccinationRow struct {
	Continent               string
	Location                string
	Date                    time.Time
	Population              uint64
	NewVaccinations         *float64
	RollingPeopleVaccinated float64
	PercentVaccinated       *float64
}

type joinKey struct {
	location string
	day      string
}

const dayFormat = "2006-01-02"

func newJoinKey(location string, date time.Time) joinKey {
	return joinKey{location: location, day: date.Format(dayFormat)}
}

// Compute inner-joins deaths and vaccinations on (location, date), drops
// aggregate rows (nil continent) and rows missing location or date, and
// emits one row per joined input row with the per-location running sum of
// new vaccinations, ordered by location then date ascending. Date ties keep
// input order. A nil new_vaccinations contributes 0 to the running sum, so
// the series is non-decreasing for every location.
func Compute(deaths []DeathRecord, vaccinations []VaccinationRecord) []RollingVaccinationRow {
	groups, locations := joinAndGroup(deaths, vaccinations)

	out := make([]RollingVaccinationRow, 0, len(deaths))
	for _, loc := range locations {
		out = append(out, computeLocation(groups[loc])...)
	}
	return out
}

// ComputeParallel produces the same rows as Compute, fanning the
// per-location prefix sums out over a worker pool. Output order is
// identical to Compute. Safe for concurrent use; inputs are not mutated.
func ComputeParallel(ctx context.Context, deaths []DeathRecord, vaccinations []VaccinationRecord, workers int) ([]RollingVaccinationRow, error) {
	if workers <= 1 {
		return Compute(deaths, vaccinations), nil
	}

	groups, locations := joinAndGroup(deaths, vaccinations)

	results := make([][]RollingVaccinationRow, len(locations))

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for i, loc := range locations {
		i, loc := i, loc
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				return
			}
			results[i] = computeLocation(groups[loc])
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]RollingVaccinationRow, 0, len(deaths))
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

type joinedRow struct {
	death           DeathRecord
	newVaccinations *float64
}

// joinAndGroup performs the inner join and groups the joined rows by
// location, preserving input order within each group. Locations come back
// sorted ascending so callers emit deterministic output.
func joinAndGroup(deaths []DeathRecord, vaccinations []VaccinationRecord) (map[string][]joinedRow, []string) {
	vaxByKey := make(map[joinKey]*float64, len(vaccinations))
	for _, v := range vaccinations {
		if v.Location == "" || v.Date.IsZero() {
			continue
		}
		vaxByKey[newJoinKey(v.Location, v.Date)] = v.NewVaccinations
	}

	groups := make(map[string][]joinedRow)
	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		nv, ok := vaxByKey[newJoinKey(d.Location, d.Date)]
		if !ok {
			continue
		}
		groups[d.Location] = append(groups[d.Location], joinedRow{death: d, newVaccinations: nv})
	}

	locations := make([]string, 0, len(groups))
	for loc := range groups {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	return groups, locations
}

func computeLocation(rows []joinedRow) []RollingVaccinationRow {
	// Stable keeps input order for same-date rows.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].death.Date.Before(rows[j].death.Date)
	})

	out := make([]RollingVaccinationRow, 0, len(rows))
	var rolling float64
	for _, r := range rows {
		if r.newVaccinations != nil {
			rolling += *r.newVaccinations
		}

		row := RollingVaccinationRow{
			Location:                r.death.Location,
			Date:                    r.death.Date,
			Population:              r.death.Population,
			NewVaccinations:         r.newVaccinations,
			RollingPeopleVaccinated: rolling,
			PercentVaccinated:       percentOf(rolling, r.death.Population),
		}
		if r.death.Continent != nil {
			row.Continent = *r.death.Continent
		}
		out = append(out, row)
	}
	return out
}

// percentOf returns numerator/population*100, or nil when the population is
// zero. Ratios stay nil instead of raising or producing Inf.
func percentOf(numerator float64, population uint64) *float64 {
	if population == 0 {
		return nil
	}
	pct := numerator / float64(population) * 100
	return &pct
}
