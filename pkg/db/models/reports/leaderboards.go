package reports

// InfectionRate is one row of the infection_rates report table.
type InfectionRate struct {
	Location                  string   `ch:"location" json:"location"`
	Population                uint64   `ch:"population" json:"population"`
	HighestInfectionCount     *float64 `ch:"highest_infection_count" json:"highest_infection_count,omitempty"`
	PercentPopulationInfected *float64 `ch:"percent_population_infected" json:"percent_population_infected,omitempty"`
	Version                   uint64   `ch:"version" json:"-"`
}

// DeathCount is one row of the death_counts report table.
type DeathCount struct {
	Location        string   `ch:"location" json:"location"`
	Population      uint64   `ch:"population" json:"population"`
	TotalDeathCount *float64 `ch:"total_death_count" json:"total_death_count,omitempty"`
	Version         uint64   `ch:"version" json:"-"`
}

// ContinentDeathCount is one row of the continent_death_counts report table.
type ContinentDeathCount struct {
	Continent       string   `ch:"continent" json:"continent"`
	TotalDeathCount *float64 `ch:"total_death_count" json:"total_death_count,omitempty"`
	Version         uint64   `ch:"version" json:"-"`
}
