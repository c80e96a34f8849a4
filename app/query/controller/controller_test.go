package controller_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4/json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Rohan-1103/covidx/app/query/controller"
	"github.com/Rohan-1103/covidx/app/query/types"
	"github.com/Rohan-1103/covidx/pkg/db"
	covidmodels "github.com/Rohan-1103/covidx/pkg/db/models/covid"
	"github.com/Rohan-1103/covidx/pkg/db/models/reports"
)

func f(v float64) *float64 { return &v }

func s(v string) *string { return &v }

func day(n int) time.Time {
	return time.Date(2021, 1, n, 0, 0, 0, 0, time.UTC)
}

type fakeCovidStore struct {
	db.CovidStore

	pingErr      error
	deaths       map[string][]covidmodels.DeathRecord
	vaccinations map[string][]covidmodels.VaccinationRecord

	infectionRates []db.InfectionRateRow
	totals         *db.GlobalTotalsRow
}

func (f *fakeCovidStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeCovidStore) SelectDeathRecordsByLocation(_ context.Context, location string) ([]covidmodels.DeathRecord, error) {
	return f.deaths[location], nil
}

func (f *fakeCovidStore) SelectVaccinationRecordsByLocation(_ context.Context, location string) ([]covidmodels.VaccinationRecord, error) {
	return f.vaccinations[location], nil
}

func (f *fakeCovidStore) GetInfectionRates(context.Context) ([]db.InfectionRateRow, error) {
	return f.infectionRates, nil
}

func (f *fakeCovidStore) GetGlobalTotals(context.Context) (*db.GlobalTotalsRow, error) {
	if f.totals == nil {
		return nil, errors.New("no totals")
	}
	return f.totals, nil
}

type fakeReportsStore struct {
	db.ReportsStore

	pingErr error
	rolling []reports.RollingVaccination

	infectionRates  []reports.InfectionRate
	deathCounts     []reports.DeathCount
	continentCounts []reports.ContinentDeathCount
	totals          *reports.GlobalTotals
	daily           []reports.GlobalDaily

	gotLimit  int
	gotOffset int
}

func (f *fakeReportsStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeReportsStore) GetRollingVaccinations(_ context.Context, limit, offset int) ([]reports.RollingVaccination, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.rolling, nil
}

func (f *fakeReportsStore) GetInfectionRates(context.Context) ([]reports.InfectionRate, error) {
	return f.infectionRates, nil
}

func (f *fakeReportsStore) GetDeathCounts(context.Context) ([]reports.DeathCount, error) {
	return f.deathCounts, nil
}

func (f *fakeReportsStore) GetContinentDeathCounts(context.Context) ([]reports.ContinentDeathCount, error) {
	return f.continentCounts, nil
}

func (f *fakeReportsStore) GetGlobalTotals(context.Context) (*reports.GlobalTotals, error) {
	return f.totals, nil
}

func (f *fakeReportsStore) GetGlobalDaily(_ context.Context, limit int) ([]reports.GlobalDaily, error) {
	f.gotLimit = limit
	return f.daily, nil
}

func newTestRouter(t *testing.T, covid *fakeCovidStore, rep *fakeReportsStore) http.Handler {
	app := &types.App{
		CovidDB:   covid,
		ReportsDB: rep,
		Logger:    zaptest.NewLogger(t),
	}
	router, err := controller.NewController(app).NewRouter()
	require.NoError(t, err)
	return router
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	covid := &fakeCovidStore{}
	rep := &fakeReportsStore{}
	router := newTestRouter(t, covid, rep)

	rec := doGet(t, router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rep.pingErr = errors.New("down")
	rec = doGet(t, router, "/health")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "errored")
}

func TestHandleRollingVaccinationsPagination(t *testing.T) {
	rep := &fakeReportsStore{
		rolling: []reports.RollingVaccination{
			{Continent: "Europe", Location: "Alphia", Date: day(1), Population: 100, RollingPeopleVaccinated: 10, PercentVaccinated: f(10)},
		},
	}
	router := newTestRouter(t, &fakeCovidStore{}, rep)

	rec := doGet(t, router, "/vaccinations/rolling?limit=25&offset=50")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 25, rep.gotLimit)
	require.Equal(t, 50, rep.gotOffset)

	var body struct {
		Data []reports.RollingVaccination `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "Alphia", body.Data[0].Location)

	// limits above the cap get clamped
	rec = doGet(t, router, "/vaccinations/rolling?limit=999999")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 5000, rep.gotLimit)

	rec = doGet(t, router, "/vaccinations/rolling?limit=-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGet(t, router, "/vaccinations/rolling?offset=abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRollingByLocation(t *testing.T) {
	covid := &fakeCovidStore{
		deaths: map[string][]covidmodels.DeathRecord{
			"Alphia": {
				{Continent: s("Europe"), Location: "Alphia", Date: day(1), Population: 100},
				{Continent: s("Europe"), Location: "Alphia", Date: day(2), Population: 100},
			},
		},
		vaccinations: map[string][]covidmodels.VaccinationRecord{
			"Alphia": {
				{Location: "Alphia", Date: day(1), NewVaccinations: f(10)},
				{Location: "Alphia", Date: day(2), NewVaccinations: f(20)},
			},
		},
	}
	router := newTestRouter(t, covid, &fakeReportsStore{})

	rec := doGet(t, router, "/vaccinations/rolling/Alphia")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []reports.RollingVaccination `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 10.0, body.Data[0].RollingPeopleVaccinated)
	require.Equal(t, 30.0, body.Data[1].RollingPeopleVaccinated)

	rec = doGet(t, router, "/vaccinations/rolling/Atlantis")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleInfectionRatesMaterialized(t *testing.T) {
	rep := &fakeReportsStore{
		infectionRates: []reports.InfectionRate{
			{Location: "Betania", Population: 100, HighestInfectionCount: f(50), PercentPopulationInfected: f(50)},
			{Location: "Alphia", Population: 1000, HighestInfectionCount: f(100), PercentPopulationInfected: f(10)},
		},
	}
	router := newTestRouter(t, &fakeCovidStore{}, rep)

	rec := doGet(t, router, "/leaderboards/infection-rates")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []reports.InfectionRate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "Betania", body.Data[0].Location)
}

func TestHandleInfectionRatesLiveFallback(t *testing.T) {
	// empty report table: the handler computes from the fact tables instead
	covid := &fakeCovidStore{
		infectionRates: []db.InfectionRateRow{
			{Location: "Betania", Population: 100, HighestInfectionCount: f(50), PercentPopulationInfected: f(50)},
		},
	}
	router := newTestRouter(t, covid, &fakeReportsStore{})

	rec := doGet(t, router, "/leaderboards/infection-rates")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []db.InfectionRateRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "Betania", body.Data[0].Location)
}

func TestHandleDeathCountsMaterialized(t *testing.T) {
	rep := &fakeReportsStore{
		deathCounts: []reports.DeathCount{
			{Location: "Betania", Population: 500, TotalDeathCount: f(40)},
			{Location: "Alphia", Population: 1000, TotalDeathCount: f(30)},
		},
		continentCounts: []reports.ContinentDeathCount{
			{Continent: "Europe", TotalDeathCount: f(80)},
		},
	}
	router := newTestRouter(t, &fakeCovidStore{}, rep)

	rec := doGet(t, router, "/leaderboards/death-counts")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []reports.DeathCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "Betania", body.Data[0].Location)

	rec = doGet(t, router, "/leaderboards/continent-death-counts")
	require.Equal(t, http.StatusOK, rec.Code)

	var continents struct {
		Data []reports.ContinentDeathCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &continents))
	require.Len(t, continents.Data, 1)
	require.Equal(t, "Europe", continents.Data[0].Continent)
}

func TestHandleGlobalDaily(t *testing.T) {
	rep := &fakeReportsStore{
		daily: []reports.GlobalDaily{
			{Date: day(1), TotalCases: 100, TotalDeaths: 2, DeathPercentage: f(2)},
			{Date: day(2), TotalCases: 150, TotalDeaths: 3, DeathPercentage: f(2)},
		},
	}
	router := newTestRouter(t, &fakeCovidStore{}, rep)

	rec := doGet(t, router, "/summary/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2000, rep.gotLimit)

	var body struct {
		Data []reports.GlobalDaily `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 100.0, body.Data[0].TotalCases)
	require.InDelta(t, 2.0, *body.Data[1].DeathPercentage, 1e-9)
}

func TestHandleGlobalTotalsMaterialized(t *testing.T) {
	rep := &fakeReportsStore{
		totals: &reports.GlobalTotals{AsOf: day(3), TotalCases: 250, TotalDeaths: 5, DeathPercentage: f(2)},
	}
	router := newTestRouter(t, &fakeCovidStore{}, rep)

	rec := doGet(t, router, "/summary/total")
	require.Equal(t, http.StatusOK, rec.Code)

	var totals reports.GlobalTotals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Equal(t, 250.0, totals.TotalCases)
	require.Equal(t, 5.0, totals.TotalDeaths)
	require.InDelta(t, 2.0, *totals.DeathPercentage, 1e-9)
}

func TestHandleGlobalTotalsLiveFallback(t *testing.T) {
	covid := &fakeCovidStore{
		totals: &db.GlobalTotalsRow{TotalCases: 250, TotalDeaths: 5, DeathPercentage: f(2)},
	}
	router := newTestRouter(t, covid, &fakeReportsStore{})

	rec := doGet(t, router, "/summary/total")
	require.Equal(t, http.StatusOK, rec.Code)

	var totals db.GlobalTotalsRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Equal(t, 250.0, totals.TotalCases)
	require.Equal(t, 5.0, totals.TotalDeaths)
	require.InDelta(t, 2.0, *totals.DeathPercentage, 1e-9)
}

func TestWithCORS(t *testing.T) {
	router := newTestRouter(t, &fakeCovidStore{}, &fakeReportsStore{})
	handler := controller.WithCORS(router)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/health", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
