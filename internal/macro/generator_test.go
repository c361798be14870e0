package macro

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorpanel/internal/calendar"
)

func studyMonths(t *testing.T) []time.Time {
	t.Helper()
	months := calendar.MonthEnds(
		time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.Len(t, months, 120)
	return months
}

// Every indicator must stay inside its declared band at every step, even
// through the event windows that push against the edges.
func TestGenerateClampInvariant(t *testing.T) {
	snaps, err := NewGenerator(42, zerolog.Nop()).Generate(studyMonths(t))
	require.NoError(t, err)
	require.Len(t, snaps, 120)

	for _, s := range snaps {
		date := s.Date.Format("2006-01")
		assertInBand(t, s.GDPGrowth, "gdp_growth", date)
		assertInBand(t, s.InflationRate, "inflation_rate", date)
		assertInBand(t, s.UnemploymentRate, "unemployment_rate", date)
		assertInBand(t, s.FedFundsRate, "federal_funds_rate", date)
		assertInBand(t, s.VIX, "vix_index", date)
		assertInBand(t, s.DollarIndex, "dollar_index", date)
		assertInBand(t, s.OilPrice, "oil_price", date)
		assertInBand(t, s.TenYearTreasury, "ten_year_treasury", date)
	}
}

func assertInBand(t *testing.T, v float64, name, date string) {
	t.Helper()
	min, max, ok := Band(name)
	require.True(t, ok, "unknown indicator %s", name)
	assert.GreaterOrEqual(t, v, min, "%s at %s", name, date)
	assert.LessOrEqual(t, v, max, "%s at %s", name, date)
}

func TestGenerateDeterminism(t *testing.T) {
	months := studyMonths(t)
	a, err := NewGenerator(42, zerolog.Nop()).Generate(months)
	require.NoError(t, err)
	b, err := NewGenerator(42, zerolog.Nop()).Generate(months)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestApplyEventsCovidWindow(t *testing.T) {
	values := []float64{2.5, 2.0, 5.0, 1.5, 18.0, 95.0, 70.0, 2.5}
	applyEvents(values, time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC), 62)

	assert.Less(t, values[idxGDP], 2.5)
	assert.Greater(t, values[idxUnemployment], 5.0)
	assert.Equal(t, 28.0, values[idxVIX])
	assert.Equal(t, 1.0, values[idxFedFunds])
	// Untouched indicators stay put.
	assert.Equal(t, 95.0, values[idxDollar])
	assert.Equal(t, 70.0, values[idxOil])
}

func TestApplyEventsFedFundsFloor(t *testing.T) {
	values := []float64{2.5, 2.0, 5.0, 0.2, 18.0, 95.0, 70.0, 2.5}
	applyEvents(values, time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), 65)
	// Cuts bottom out at 0.1 instead of going negative.
	assert.Equal(t, 0.1, values[idxFedFunds])
}

func TestApplyEventsInflationWindow(t *testing.T) {
	values := []float64{2.5, 8.9, 5.0, 5.45, 18.0, 95.0, 70.0, 4.95}
	applyEvents(values, time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC), 89)

	// Hikes saturate at their declared ceilings.
	assert.Equal(t, 9.0, values[idxInflation])
	assert.Equal(t, 5.5, values[idxFedFunds])
	assert.Equal(t, 5.0, values[idxTenYear])
}

func TestApplyEventsOutsideWindows(t *testing.T) {
	values := []float64{2.5, 2.0, 5.0, 1.5, 18.0, 95.0, 70.0, 2.5}
	before := append([]float64(nil), values...)
	applyEvents(values, time.Date(2018, 5, 31, 0, 0, 0, 0, time.UTC), 40)
	assert.Equal(t, before, values)
}

func TestGenerateEmptyCalendar(t *testing.T) {
	_, err := NewGenerator(42, zerolog.Nop()).Generate(nil)
	assert.ErrorContains(t, err, "empty calendar")
}

func TestBandUnknownIndicator(t *testing.T) {
	_, _, ok := Band("nonsense")
	assert.False(t, ok)
}
