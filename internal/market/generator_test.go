package market

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/factorpanel/internal/calendar"
)

func testCalendar(t *testing.T, start string, n int) []time.Time {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	days, err := calendar.TradingDays(s, s.AddDate(2, 0, 0), n)
	require.NoError(t, err)
	return days
}

func TestGenerateDeterminism(t *testing.T) {
	days := testCalendar(t, "2019-06-03", 120)
	symbols := []string{"AAPL", "JPM", "XOM", "KO"}

	gen := func() *Panel {
		g := NewGenerator(42, 2, zerolog.Nop())
		panel, err := g.Generate(days, symbols)
		require.NoError(t, err)
		return panel
	}

	a, b := gen(), gen()
	require.Equal(t, len(a.Instruments), len(b.Instruments))
	for i := range a.Instruments {
		assert.Equal(t, a.Instruments[i].Symbol, b.Instruments[i].Symbol)
		assert.Equal(t, a.Instruments[i].Points, b.Instruments[i].Points)
	}
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	days := testCalendar(t, "2019-06-03", 30)

	a, err := NewGenerator(42, 2, zerolog.Nop()).Generate(days, []string{"AAPL"})
	require.NoError(t, err)
	b, err := NewGenerator(43, 2, zerolog.Nop()).Generate(days, []string{"AAPL"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Instruments[0].Points[0].Close, b.Instruments[0].Points[0].Close)
}

// Ten business days from 2024-01-01, one instrument: the panel must hold
// exactly ten rows with open-close chaining and positive volume throughout.
func TestGenerateSingleInstrumentScenario(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days, err := calendar.TradingDays(start, start.AddDate(0, 1, 0), 10)
	require.NoError(t, err)

	panel, err := NewGenerator(42, 2, zerolog.Nop()).Generate(days, []string{"KO"})
	require.NoError(t, err)
	require.Len(t, panel.Instruments, 1)

	points := panel.Instruments[0].Points
	require.Len(t, points, 10)

	assert.Equal(t, points[0].Open, points[0].Close)
	for i := 1; i < len(points); i++ {
		assert.Equal(t, points[i-1].Close, points[i].Open, "day %d open must equal prior close", i)
	}
	for i, p := range points {
		assert.Positive(t, p.Volume, "day %d volume", i)
		assert.GreaterOrEqual(t, p.High, p.Close, "day %d high", i)
		assert.LessOrEqual(t, p.Low, p.Close, "day %d low", i)
		assert.Positive(t, p.Close)
	}
}

func TestGenerateEventOverlayShiftsReturns(t *testing.T) {
	days := testCalendar(t, "2020-01-06", 120)

	base, err := NewGenerator(7, 2, zerolog.Nop()).WithEvents(nil).Generate(days, []string{"KO"})
	require.NoError(t, err)
	stressed, err := NewGenerator(7, 2, zerolog.Nop()).Generate(days, []string{"KO"})
	require.NoError(t, err)

	covidStart := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	var differs bool
	for i, d := range days {
		before := base.Instruments[0].Points[i].Return
		after := stressed.Instruments[0].Points[i].Return
		if d.Before(covidStart) {
			assert.Equal(t, before, after, "pre-event returns must be untouched (day %d)", i)
		} else if before != after {
			differs = true
		}
	}
	assert.True(t, differs, "event window must perturb at least one return")
}

func TestGenerateRejectsEmptyInputs(t *testing.T) {
	days := testCalendar(t, "2024-01-01", 5)
	g := NewGenerator(42, 2, zerolog.Nop())

	_, err := g.Generate(nil, []string{"AAPL"})
	assert.ErrorContains(t, err, "empty calendar")

	_, err = g.Generate(days, nil)
	assert.ErrorContains(t, err, "empty universe")
}

func TestGenerateVolumeTracksMoveSize(t *testing.T) {
	days := testCalendar(t, "2019-06-03", 252)
	panel, err := NewGenerator(11, 2, zerolog.Nop()).Generate(days, []string{"AAPL"})
	require.NoError(t, err)

	// Volume is base*(1+10|r|)*U(0.5,2): bounded below by base/2 and above by
	// base*2*(1+10|r|).
	for _, p := range panel.Instruments[0].Points {
		assert.GreaterOrEqual(t, float64(p.Volume), 15_000_000*0.5*1.0)
		assert.LessOrEqual(t, float64(p.Volume), 15_000_000*2.0*(1+10*abs(p.Return))+1)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
