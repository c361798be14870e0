package sectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		symbol string
		sector string
		drift  float64
	}{
		{"AAPL", Technology, 0.15},
		{"JPM", Finance, 0.10},
		{"JNJ", Healthcare, 0.12},
		{"XOM", Energy, 0.08},
		{"KO", Default, 0.10},       // classified nowhere
		{"ZZZZ", Default, 0.10},     // unknown symbol
		{"SCHW", Finance, 0.10},     // last finance member
		{"APA", Energy, 0.08},       // appears late in universe list
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			p := Lookup(tt.symbol)
			assert.Equal(t, tt.sector, p.Sector)
			assert.Equal(t, tt.drift, p.Drift)
			assert.Positive(t, p.Volatility)
			assert.Positive(t, p.Beta)
			assert.Positive(t, p.AvgVolume)
		})
	}
}

func TestUniverse(t *testing.T) {
	assert.Equal(t, 300, UniverseSize())

	u := Universe(10)
	assert.Len(t, u, 10)
	assert.Equal(t, "AAPL", u[0])

	// Requesting more than the list holds returns the whole list.
	assert.Len(t, Universe(1000), 300)

	// Returned slice is a copy; mutating it must not corrupt the table.
	u[0] = "MUTATED"
	assert.Equal(t, "AAPL", Universe(1)[0])
}
