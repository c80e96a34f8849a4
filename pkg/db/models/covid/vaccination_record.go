package covid

import (
	"time"
)

// VaccinationRecord mirrors one row of the covid_vaccinations fact table.
// new_vaccinations is a nullable float: the column was widened from an
// integer type to preserve precision, not to absorb bad data.
type VaccinationRecord struct {
	Location        string    `ch:"location" json:"location"`
	Date            time.Time `ch:"date" json:"date"`
	NewVaccinations *float64  `ch:"new_vaccinations" json:"new_vaccinations,omitempty"`
}
