// Package live fetches real daily bars from a market-data provider. It is an
// optional path: any failure falls back to the synthetic generator.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Bar is one provider-sourced daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// HistoryClient retrieves daily bar history for a symbol.
type HistoryClient interface {
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)
}

// YahooClient implements HistoryClient against the Yahoo Finance chart API.
type YahooClient struct {
	client  *http.Client
	baseURL string
}

// NewYahooClient creates a chart-API client.
func NewYahooClient(timeout time.Duration) *YahooClient {
	return &YahooClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *YahooClient) WithBaseURL(url string) *YahooClient {
	c.baseURL = url
	return c
}

// DailyBars fetches the daily bar history for one symbol.
func (c *YahooClient) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&events=history",
		c.baseURL, symbol, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, symbol)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var chartResp struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []float64 `json:"open"`
						High   []float64 `json:"high"`
						Low    []float64 `json:"low"`
						Close  []float64 `json:"close"`
						Volume []int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error interface{} `json:"error"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("provider error for %s: %v", symbol, chartResp.Chart.Error)
	}
	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no results for symbol %s", symbol)
	}

	result := chartResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n ||
		len(quote.Close) != n || len(quote.Volume) != n {
		return nil, fmt.Errorf("inconsistent bar data for %s", symbol)
	}

	bars := make([]Bar, 0, n)
	for i, ts := range result.Timestamp {
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: quote.Volume[i],
		})
	}
	return bars, nil
}
