package controller

import (
	"net/http"
)

// daysLimit caps the daily summary response.
const daysLimit = 2000

// HandleGlobalDaily returns the materialized per-date global summary.
// Endpoint: GET /summary/daily
func (c *Controller) HandleGlobalDaily(w http.ResponseWriter, r *http.Request) {
	rows, err := c.App.ReportsDB.GetGlobalDaily(r.Context(), daysLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": rows,
	})
}

// HandleGlobalTotals returns the all-time global summary. The materialized
// snapshot is preferred; before the first reporter run it is computed live.
// Endpoint: GET /summary/total
func (c *Controller) HandleGlobalTotals(w http.ResponseWriter, r *http.Request) {
	c.cached(w, r, "summary:total", func() (interface{}, error) {
		row, err := c.App.ReportsDB.GetGlobalTotals(r.Context())
		if err != nil {
			return nil, err
		}
		if row != nil {
			return row, nil
		}
		return c.App.CovidDB.GetGlobalTotals(r.Context())
	})
}
