package controller

import (
	"net/http"
)

// Leaderboards are served from the materialized report tables; before the
// first reporter run those are empty, so the handlers fall back to the live
// aggregate queries against the fact tables.

// HandleInfectionRates returns locations ranked by the share of their
// population ever infected.
// Endpoint: GET /leaderboards/infection-rates
func (c *Controller) HandleInfectionRates(w http.ResponseWriter, r *http.Request) {
	c.cached(w, r, "leaderboards:infection_rates", func() (interface{}, error) {
		rows, err := c.App.ReportsDB.GetInfectionRates(r.Context())
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return map[string]interface{}{"data": rows}, nil
		}

		live, err := c.App.CovidDB.GetInfectionRates(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"data": live}, nil
	})
}

// HandleDeathCounts returns locations ranked by total death count.
// Endpoint: GET /leaderboards/death-counts
func (c *Controller) HandleDeathCounts(w http.ResponseWriter, r *http.Request) {
	c.cached(w, r, "leaderboards:death_counts", func() (interface{}, error) {
		rows, err := c.App.ReportsDB.GetDeathCounts(r.Context())
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return map[string]interface{}{"data": rows}, nil
		}

		live, err := c.App.CovidDB.GetDeathCounts(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"data": live}, nil
	})
}

// HandleContinentDeathCounts returns continents ranked by total death count.
// Endpoint: GET /leaderboards/continent-death-counts
func (c *Controller) HandleContinentDeathCounts(w http.ResponseWriter, r *http.Request) {
	c.cached(w, r, "leaderboards:continent_death_counts", func() (interface{}, error) {
		rows, err := c.App.ReportsDB.GetContinentDeathCounts(r.Context())
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return map[string]interface{}{"data": rows}, nil
		}

		live, err := c.App.CovidDB.GetContinentDeathCounts(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"data": live}, nil
	})
}
