package covid

import (
	"time"
)

// DeathRecord mirrors one row of the covid_deaths fact table. Aggregate
// rows ("World", per-continent rollups) carry a NULL continent and are
// filtered out of country-level queries.
type DeathRecord struct {
	Continent   *string   `ch:"continent" json:"continent,omitempty"`
	Location    string    `ch:"location" json:"location"`
	Date        time.Time `ch:"date" json:"date"`
	Population  uint64    `ch:"population" json:"population"`
	TotalCases  *float64  `ch:"total_cases" json:"total_cases,omitempty"`
	NewCases    *float64  `ch:"new_cases" json:"new_cases,omitempty"`
	TotalDeaths *float64  `ch:"total_deaths" json:"total_deaths,omitempty"`
	NewDeaths   *float64  `ch:"new_deaths" json:"new_deaths,omitempty"`
}
