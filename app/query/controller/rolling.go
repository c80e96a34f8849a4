package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rohan-1103/covidx/pkg/db/transform"
	"github.com/Rohan-1103/covidx/pkg/rollup"
)

// HandleRollingVaccinations returns the materialized rolling vaccination
// rows ordered by location then date.
// Endpoint: GET /vaccinations/rolling?limit=<n>&offset=<n>
func (c *Controller) HandleRollingVaccinations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	spec, err := parsePageSpec(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := c.App.ReportsDB.GetRollingVaccinations(ctx, spec.Limit, spec.Offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": rows,
	})
}

// HandleRollingByLocation computes the rolling series for one location
// directly from the fact tables, bypassing the materialized report.
// Endpoint: GET /vaccinations/rolling/{location}
func (c *Controller) HandleRollingByLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	location := mux.Vars(r)["location"]
	if location == "" {
		writeError(w, http.StatusBadRequest, "missing location")
		return
	}

	deaths, err := c.App.CovidDB.SelectDeathRecordsByLocation(ctx, location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if len(deaths) == 0 {
		writeError(w, http.StatusNotFound, "location not found")
		return
	}

	vaccinations, err := c.App.CovidDB.SelectVaccinationRecordsByLocation(ctx, location)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	rows := rollup.Compute(
		transform.ToRollupDeaths(deaths),
		transform.ToRollupVaccinations(vaccinations),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": transform.FromRollingRows(rows, 0),
	})
}
