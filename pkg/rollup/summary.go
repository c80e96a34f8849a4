package rollup

import (
	"sort"
	"time"
)

// InfectionRate is one leaderboard row: the highest observed case count for
// a location and the share of its population that represents.
type InfectionRate struct {
	Location                  string
	Population                uint64
	HighestInfectionCount     *float64
	PercentPopulationInfected *float64
}

// DeathCount is one leaderboard row: the highest observed death count for a location.
type DeathCount struct {
	Location        string
	Population      uint64
	TotalDeathCount *float64
}

// ContinentDeathCount is the per-continent variant of DeathCount.
type ContinentDeathCount struct {
	Continent       string
	TotalDeathCount *float64
}

// DailySummary is the global aggregate for one date.
type DailySummary struct {
	Date            time.Time
	TotalCases      float64
	TotalDeaths     float64
	DeathPercentage *float64
}

// TotalSummary is the all-time global aggregate.
type TotalSummary struct {
	TotalCases      float64
	TotalDeaths     float64
	DeathPercentage *float64
}

// InfectionRates groups country-level death records by (location, population)
// and returns max(total_cases) with the population percentage, sorted
// descending by percentage. Zero-population locations keep a nil percentage
// instead of aborting the batch.
func InfectionRates(deaths []DeathRecord) []InfectionRate {
	type agg struct {
		population uint64
		maxCases   *float64
	}
	byLocation := make(map[string]*agg)
	var order []string

	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		a, ok := byLocation[d.Location]
		if !ok {
			a = &agg{population: d.Population}
			byLocation[d.Location] = a
			order = append(order, d.Location)
		}
		a.maxCases = maxNullable(a.maxCases, d.TotalCases)
	}

	out := make([]InfectionRate, 0, len(order))
	for _, loc := range order {
		a := byLocation[loc]
		row := InfectionRate{
			Location:              loc,
			Population:            a.population,
			HighestInfectionCount: a.maxCases,
		}
		if a.maxCases != nil {
			row.PercentPopulationInfected = percentOf(*a.maxCases, a.population)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return nullableGreater(out[i].PercentPopulationInfected, out[j].PercentPopulationInfected)
	})
	return out
}

// DeathCounts groups country-level death records by (location, population)
// and returns max(total_deaths) sorted descending.
func DeathCounts(deaths []DeathRecord) []DeathCount {
	type agg struct {
		population uint64
		maxDeaths  *float64
	}
	byLocation := make(map[string]*agg)
	var order []string

	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		a, ok := byLocation[d.Location]
		if !ok {
			a = &agg{population: d.Population}
			byLocation[d.Location] = a
			order = append(order, d.Location)
		}
		a.maxDeaths = maxNullable(a.maxDeaths, d.TotalDeaths)
	}

	out := make([]DeathCount, 0, len(order))
	for _, loc := range order {
		a := byLocation[loc]
		out = append(out, DeathCount{Location: loc, Population: a.population, TotalDeathCount: a.maxDeaths})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return nullableGreater(out[i].TotalDeathCount, out[j].TotalDeathCount)
	})
	return out
}

// DeathCountsByContinent groups country-level death records by continent and
// returns max(total_deaths) per continent sorted descending.
func DeathCountsByContinent(deaths []DeathRecord) []ContinentDeathCount {
	byContinent := make(map[string]*float64)
	var order []string

	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		if _, ok := byContinent[*d.Continent]; !ok {
			order = append(order, *d.Continent)
		}
		byContinent[*d.Continent] = maxNullable(byContinent[*d.Continent], d.TotalDeaths)
	}

	out := make([]ContinentDeathCount, 0, len(order))
	for _, c := range order {
		out = append(out, ContinentDeathCount{Continent: c, TotalDeathCount: byContinent[c]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return nullableGreater(out[i].TotalDeathCount, out[j].TotalDeathCount)
	})
	return out
}

// GlobalDaily sums new cases and deaths per date across all country-level
// rows and derives the death percentage, nil when no cases were reported.
// Rows come back ordered by date ascending.
func GlobalDaily(deaths []DeathRecord) []DailySummary {
	type agg struct {
		cases  float64
		deaths float64
	}
	byDay := make(map[string]*agg)
	dates := make(map[string]time.Time)

	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		day := d.Date.Format(dayFormat)
		a, ok := byDay[day]
		if !ok {
			a = &agg{}
			byDay[day] = a
			dates[day] = d.Date
		}
		if d.NewCases != nil {
			a.cases += *d.NewCases
		}
		if d.NewDeaths != nil {
			a.deaths += *d.NewDeaths
		}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailySummary, 0, len(days))
	for _, day := range days {
		a := byDay[day]
		out = append(out, DailySummary{
			Date:            dates[day],
			TotalCases:      a.cases,
			TotalDeaths:     a.deaths,
			DeathPercentage: ratioPercent(a.deaths, a.cases),
		})
	}
	return out
}

// GlobalTotals is GlobalDaily with no grouping key: the all-time totals.
func GlobalTotals(deaths []DeathRecord) TotalSummary {
	var cases, dead float64
	for _, d := range deaths {
		if d.Location == "" || d.Date.IsZero() || d.Continent == nil {
			continue
		}
		if d.NewCases != nil {
			cases += *d.NewCases
		}
		if d.NewDeaths != nil {
			dead += *d.NewDeaths
		}
	}
	return TotalSummary{
		TotalCases:      cases,
		TotalDeaths:     dead,
		DeathPercentage: ratioPercent(dead, cases),
	}
}

// ratioPercent returns num/den*100 or nil when the denominator is zero.
func ratioPercent(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	pct := num / den * 100
	return &pct
}

func maxNullable(a, b *float64) *float64 {
	if b == nil {
		return a
	}
	if a == nil || *b > *a {
		v := *b
		return &v
	}
	return a
}

// nullableGreater orders descending with nils last.
func nullableGreater(a, b *float64) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a > *b
}
