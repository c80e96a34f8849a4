package reports

import (
	"time"
)

// RollingVaccination is one materialized row of the per-location running
// vaccination sum. Rows are versioned so full recomputes replace earlier
// runs via ReplacingMergeTree(version).
type RollingVaccination struct {
	Continent               string    `ch:"continent" json:"continent"`
	Location                string    `ch:"location" json:"location"`
	Date                    time.Time `ch:"date" json:"date"`
	Population              uint64    `ch:"population" json:"population"`
	NewVaccinations         *float64  `ch:"new_vaccinations" json:"new_vaccinations,omitempty"`
	RollingPeopleVaccinated float64   `ch:"rolling_people_vaccinated" json:"rolling_people_vaccinated"`
	PercentVaccinated       *float64  `ch:"percent_vaccinated" json:"percent_vaccinated,omitempty"`
	Version                 uint64    `ch:"version" json:"-"`
}
