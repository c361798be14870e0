package live

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDailyBarsParsesQuotes(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[{
		"timestamp":[1704153600,1704240000],
		"indicators":{"quote":[{
			"open":[99.5,100.5],
			"high":[101.0,102.0],
			"low":[99.0,100.0],
			"close":[100.0,101.0],
			"volume":[1000,2000]
		}]}
	}],"error":null}}`)

	client := NewYahooClient(time.Second).WithBaseURL(srv.URL)
	bars, err := client.DailyBars(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 101.0, bars[1].Close)
	assert.Equal(t, int64(2000), bars[1].Volume)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
}

// Payloads whose quote arrays are shorter than the timestamp array must come
// back as an error, never index past the shorter slice.
func TestDailyBarsRejectsTruncatedQuoteArrays(t *testing.T) {
	fields := []string{"open", "high", "low", "close", "volume"}
	full := map[string]string{
		"open":   "[99.5,100.5]",
		"high":   "[101.0,102.0]",
		"low":    "[99.0,100.0]",
		"close":  "[100.0,101.0]",
		"volume": "[1000,2000]",
	}
	truncated := map[string]string{
		"open":   "[99.5]",
		"high":   "[101.0]",
		"low":    "[99.0]",
		"close":  "[100.0]",
		"volume": "[1000]",
	}

	for _, short := range fields {
		t.Run(short, func(t *testing.T) {
			quote := "{"
			for i, f := range fields {
				if i > 0 {
					quote += ","
				}
				v := full[f]
				if f == short {
					v = truncated[f]
				}
				quote += fmt.Sprintf("%q:%s", f, v)
			}
			quote += "}"

			srv := chartServer(t, fmt.Sprintf(`{"chart":{"result":[{
				"timestamp":[1704153600,1704240000],
				"indicators":{"quote":[%s]}
			}],"error":null}}`, quote))

			client := NewYahooClient(time.Second).WithBaseURL(srv.URL)
			_, err := client.DailyBars(context.Background(), "AAPL",
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
			assert.ErrorContains(t, err, "inconsistent bar data")
		})
	}
}

func TestDailyBarsProviderError(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[],"error":{"code":"Not Found","description":"no data"}}}`)

	client := NewYahooClient(time.Second).WithBaseURL(srv.URL)
	_, err := client.DailyBars(context.Background(), "NOPE",
		time.Now().AddDate(0, -1, 0), time.Now())
	assert.ErrorContains(t, err, "provider error")
}
