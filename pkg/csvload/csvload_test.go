package csvload_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rohan-1103/covidx/pkg/csvload"
)

func TestParseDeaths(t *testing.T) {
	input := strings.Join([]string{
		"iso_code,continent,location,date,population,total_cases,new_cases,total_deaths,new_deaths",
		"ALP,Europe,Alphia,2021-01-01,1000,100,10,5,1",
		"OWID_WRL,,World,2021-01-01,7000000000,50000,1000,900,20",
		"ALP,Europe,Alphia,2021-01-02,1000,110,10,,",
	}, "\n")

	records, rowErrs, err := csvload.ParseDeaths(strings.NewReader(input), "deaths.csv")
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 3)

	first := records[0]
	require.NotNil(t, first.Continent)
	require.Equal(t, "Europe", *first.Continent)
	require.Equal(t, "Alphia", first.Location)
	require.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	require.Equal(t, uint64(1000), first.Population)
	require.Equal(t, 100.0, *first.TotalCases)
	require.Equal(t, 1.0, *first.NewDeaths)

	// aggregate rows keep a nil continent
	require.Nil(t, records[1].Continent)

	// empty cells come back nil, not zero
	require.Nil(t, records[2].TotalDeaths)
	require.Nil(t, records[2].NewDeaths)
}

func TestParseDeathsBadNumericKeepsRow(t *testing.T) {
	input := strings.Join([]string{
		"continent,location,date,population,total_cases",
		"Europe,Alphia,2021-01-01,1000,not-a-number",
	}, "\n")

	records, rowErrs, err := csvload.ParseDeaths(strings.NewReader(input), "deaths.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Nil(t, records[0].TotalCases)

	require.Len(t, rowErrs, 1)
	require.Equal(t, "deaths.csv", rowErrs[0].File)
	require.Equal(t, 2, rowErrs[0].Line)
	require.Equal(t, "total_cases", rowErrs[0].Column)
	require.Equal(t, "not-a-number", rowErrs[0].Value)
	require.Contains(t, rowErrs[0].Error(), "total_cases")
}

func TestParseDeathsDropsRowsMissingLocationOrDate(t *testing.T) {
	input := strings.Join([]string{
		"continent,location,date,total_cases",
		"Europe,,2021-01-01,10",
		"Europe,Alphia,,10",
		"Europe,Alphia,2021-01-01,10",
	}, "\n")

	records, rowErrs, err := csvload.ParseDeaths(strings.NewReader(input), "deaths.csv")
	require.NoError(t, err)
	require.Empty(t, rowErrs)
	require.Len(t, records, 1)
	require.Equal(t, "Alphia", records[0].Location)
}

func TestParseDeathsMissingRequiredHeader(t *testing.T) {
	input := "continent,location,total_cases\nEurope,Alphia,10\n"

	_, _, err := csvload.ParseDeaths(strings.NewReader(input), "deaths.csv")
	require.Error(t, err)
	require.Contains(t, err.Error(), `missing required column "date"`)
}

func TestParseVaccinations(t *testing.T) {
	input := strings.Join([]string{
		"iso_code,continent,Location,Date,new_vaccinations,extra",
		"ALP,Europe,Alphia,1/2/2021,25,ignored",
		"ALP,Europe,Alphia,2021-01-03 00:00:00,,ignored",
		"ALP,Europe,Alphia,whenever,5,ignored",
	}, "\n")

	records, rowErrs, err := csvload.ParseVaccinations(strings.NewReader(input), "vax.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), records[0].Date)
	require.Equal(t, 25.0, *records[0].NewVaccinations)

	require.Equal(t, time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), records[1].Date)
	require.Nil(t, records[1].NewVaccinations)

	// the unparseable date is reported and its row dropped
	require.Len(t, rowErrs, 1)
	require.Equal(t, "date", rowErrs[0].Column)
	require.Equal(t, "whenever", rowErrs[0].Value)
	require.Equal(t, 4, rowErrs[0].Line)
}
