package rollup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rohan-1103/covidx/pkg/rollup"
)

func f(v float64) *float64 { return &v }

func s(v string) *string { return &v }

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func death(continent *string, location string, date string, population uint64) rollup.DeathRecord {
	return rollup.DeathRecord{
		Continent:  continent,
		Location:   location,
		Date:       day(date),
		Population: population,
	}
}

func vax(location string, date string, n *float64) rollup.VaccinationRecord {
	return rollup.VaccinationRecord{Location: location, Date: day(date), NewVaccinations: n}
}

func TestComputeRunningSumExample(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Oceania"), "Testland", "2021-01-01", 100),
		death(s("Oceania"), "Testland", "2021-01-02", 100),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Testland", "2021-01-01", f(10)),
		vax("Testland", "2021-01-02", f(20)),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 2)

	require.Equal(t, 10.0, rows[0].RollingPeopleVaccinated)
	require.Equal(t, 30.0, rows[1].RollingPeopleVaccinated)

	require.NotNil(t, rows[0].PercentVaccinated)
	require.NotNil(t, rows[1].PercentVaccinated)
	require.InDelta(t, 10.0, *rows[0].PercentVaccinated, 1e-9)
	require.InDelta(t, 30.0, *rows[1].PercentVaccinated, 1e-9)
}

func TestComputeNonDecreasingAndRoundTrip(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Europe"), "Alphia", "2021-01-03", 1000),
		death(s("Europe"), "Alphia", "2021-01-01", 1000),
		death(s("Europe"), "Alphia", "2021-01-02", 1000),
		death(s("Asia"), "Betania", "2021-01-01", 500),
		death(s("Asia"), "Betania", "2021-01-02", 500),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Alphia", "2021-01-01", f(5)),
		vax("Alphia", "2021-01-02", nil),
		vax("Alphia", "2021-01-03", f(7)),
		vax("Betania", "2021-01-01", f(3)),
		vax("Betania", "2021-01-02", f(4)),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 5)

	perLocation := make(map[string][]rollup.RollingVaccinationRow)
	for _, row := range rows {
		perLocation[row.Location] = append(perLocation[row.Location], row)
	}

	sums := map[string]float64{"Alphia": 12, "Betania": 7}
	for location, locRows := range perLocation {
		for i := 1; i < len(locRows); i++ {
			require.True(t, locRows[i].Date.After(locRows[i-1].Date))
			require.GreaterOrEqual(t, locRows[i].RollingPeopleVaccinated, locRows[i-1].RollingPeopleVaccinated)
		}
		require.Equal(t, sums[location], locRows[len(locRows)-1].RollingPeopleVaccinated)
	}
}

func TestComputeOrdersByLocationThenDate(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Asia"), "Betania", "2021-01-02", 500),
		death(s("Europe"), "Alphia", "2021-01-01", 1000),
		death(s("Asia"), "Betania", "2021-01-01", 500),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Alphia", "2021-01-01", f(1)),
		vax("Betania", "2021-01-01", f(1)),
		vax("Betania", "2021-01-02", f(1)),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 3)
	require.Equal(t, "Alphia", rows[0].Location)
	require.Equal(t, "Betania", rows[1].Location)
	require.Equal(t, "Betania", rows[2].Location)
	require.True(t, rows[1].Date.Before(rows[2].Date))
}

func TestComputeExcludesAggregateAndUnjoinedRows(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(nil, "World", "2021-01-01", 7_000_000_000),
		death(s("Europe"), "Alphia", "2021-01-01", 1000),
		death(s("Europe"), "Alphia", "2021-01-02", 1000), // no vaccination row for this date
		death(s("Europe"), "", "2021-01-01", 1000),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("World", "2021-01-01", f(1000)),
		vax("Alphia", "2021-01-01", f(5)),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 1)
	require.Equal(t, "Alphia", rows[0].Location)
	require.Equal(t, 5.0, rows[0].RollingPeopleVaccinated)
}

func TestComputeAllNilVaccinationsStaysZero(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Africa"), "Nullia", "2021-01-01", 100),
		death(s("Africa"), "Nullia", "2021-01-02", 100),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Nullia", "2021-01-01", nil),
		vax("Nullia", "2021-01-02", nil),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, 0.0, row.RollingPeopleVaccinated)
		require.Nil(t, row.NewVaccinations)
	}
}

func TestComputeZeroPopulationYieldsNilPercent(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Europe"), "Ghostia", "2021-01-01", 0),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Ghostia", "2021-01-01", f(10)),
	}

	rows := rollup.Compute(deaths, vaccinations)
	require.Len(t, rows, 1)
	require.Equal(t, 10.0, rows[0].RollingPeopleVaccinated)
	require.Nil(t, rows[0].PercentVaccinated)
}

func TestComputeIsIdempotent(t *testing.T) {
	deaths := []rollup.DeathRecord{
		death(s("Europe"), "Alphia", "2021-01-01", 1000),
		death(s("Europe"), "Alphia", "2021-01-02", 1000),
		death(s("Asia"), "Betania", "2021-01-01", 500),
	}
	vaccinations := []rollup.VaccinationRecord{
		vax("Alphia", "2021-01-01", f(5)),
		vax("Alphia", "2021-01-02", f(6)),
		vax("Betania", "2021-01-01", f(3)),
	}

	first := rollup.Compute(deaths, vaccinations)
	second := rollup.Compute(deaths, vaccinations)
	require.Equal(t, first, second)
}

func TestComputeParallelMatchesSequential(t *testing.T) {
	var deaths []rollup.DeathRecord
	var vaccinations []rollup.VaccinationRecord
	locations := []string{"Alphia", "Betania", "Gammia", "Deltia", "Epsilia"}
	for _, loc := range locations {
		for d := 1; d <= 9; d++ {
			date := time.Date(2021, 1, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			deaths = append(deaths, death(s("Europe"), loc, date, 1000))
			vaccinations = append(vaccinations, vax(loc, date, f(float64(d))))
		}
	}

	sequential := rollup.Compute(deaths, vaccinations)
	parallel, err := rollup.ComputeParallel(context.Background(), deaths, vaccinations, 4)
	require.NoError(t, err)
	require.Equal(t, sequential, parallel)
}

func TestComputeParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deaths := []rollup.DeathRecord{death(s("Europe"), "Alphia", "2021-01-01", 1000)}
	vaccinations := []rollup.VaccinationRecord{vax("Alphia", "2021-01-01", f(1))}

	_, err := rollup.ComputeParallel(ctx, deaths, vaccinations, 4)
	require.Error(t, err)
}
