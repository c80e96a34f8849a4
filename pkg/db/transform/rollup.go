// Package transform converts between database models and the in-memory
// aggregation types.
package transform

import (
	covidmodels "github.com/Rohan-1103/covidx/pkg/db/models/covid"
	"github.com/Rohan-1103/covidx/pkg/db/models/reports"
	"github.com/Rohan-1103/covidx/pkg/rollup"
)

// ToRollupDeaths converts death record models to aggregation inputs.
func ToRollupDeaths(records []covidmodels.DeathRecord) []rollup.DeathRecord {
	out := make([]rollup.DeathRecord, 0, len(records))
	for _, r := range records {
		out = append(out, rollup.DeathRecord{
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
	return out
}

// ToRollupVaccinations converts vaccination record models to aggregation inputs.
func ToRollupVaccinations(records []covidmodels.VaccinationRecord) []rollup.VaccinationRecord {
	out := make([]rollup.VaccinationRecord, 0, len(records))
	for _, r := range records {
		out = append(out, rollup.VaccinationRecord{
			Location:        r.Location,
			Date:            r.Date,
			NewVaccinations: r.NewVaccinations,
		})
	}
	return out
}

// FromRollingRows converts aggregation output to report models, stamping
// every row with the given recompute version.
func FromRollingRows(rows []rollup.RollingVaccinationRow, version uint64) []*reports.RollingVaccination {
	out := make([]*reports.RollingVaccination, 0, len(rows))
	for _, r := range rows {
		out = append(out, &reports.RollingVaccination{
			Continent:               r.Continent,
			Location:                r.Location,
			Date:                    r.Date,
			Population:              r.Population,
			NewVaccinations:         r.NewVaccinations,
			RollingPeopleVaccinated: r.RollingPeopleVaccinated,
			PercentVaccinated:       r.PercentVaccinated,
			Version:                 version,
		})
	}
	return out
}
