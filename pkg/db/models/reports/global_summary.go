package reports

import (
	"time"
)

// GlobalDaily is one row of the global_daily report table: cases and deaths
// summed across all countries for one date.
type GlobalDaily struct {
	Date            time.Time `ch:"date" json:"date"`
	TotalCases      float64   `ch:"total_cases" json:"total_cases"`
	TotalDeaths     float64   `ch:"total_deaths" json:"total_deaths"`
	DeathPercentage *float64  `ch:"death_percentage" json:"death_percentage,omitempty"`
	Version         uint64    `ch:"version" json:"-"`
}

// GlobalTotals is the all-time snapshot row of the global_totals report table.
type GlobalTotals struct {
	AsOf            time.Time `ch:"asof" json:"asof"`
	TotalCases      float64   `ch:"total_cases" json:"total_cases"`
	TotalDeaths     float64   `ch:"total_deaths" json:"total_deaths"`
	DeathPercentage *float64  `ch:"death_percentage" json:"death_percentage,omitempty"`
	Version         uint64    `ch:"version" json:"-"`
}
