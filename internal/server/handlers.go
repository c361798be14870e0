package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quantlab/factorpanel/internal/market"
	"github.com/quantlab/factorpanel/internal/sentiment"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "factorpanel",
	})
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	summary := s.lastRun()
	if summary == nil {
		s.writeError(w, http.StatusNotFound, "no completed run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// pricePoint mirrors market.PricePoint for JSON output; undefined indicator
// values marshal as null instead of breaking the encoder.
type pricePoint struct {
	Date           string   `json:"date"`
	Open           float64  `json:"open"`
	High           float64  `json:"high"`
	Low            float64  `json:"low"`
	Close          float64  `json:"close"`
	Volume         int64    `json:"volume"`
	Return         *float64 `json:"daily_return"`
	LogReturn      *float64 `json:"log_return"`
	MA5            *float64 `json:"ma_5"`
	MA20           *float64 `json:"ma_20"`
	MA50           *float64 `json:"ma_50"`
	MA200          *float64 `json:"ma_200"`
	Volatility5    *float64 `json:"volatility_5"`
	Volatility20   *float64 `json:"volatility_20"`
	Volatility60   *float64 `json:"volatility_60"`
	RSI            *float64 `json:"rsi"`
	MACD           *float64 `json:"macd"`
	MACDSignal     *float64 `json:"macd_signal"`
	BBUpper        *float64 `json:"bb_upper"`
	BBLower        *float64 `json:"bb_lower"`
	LiquidityScore *float64 `json:"liquidity_score"`
	VolumeMA20     *float64 `json:"volume_ma_20"`
	VolumeRatio    *float64 `json:"volume_ratio"`
	PriceChange1D  *float64 `json:"price_change_1d"`
	PriceChange5D  *float64 `json:"price_change_5d"`
	PriceChange20D *float64 `json:"price_change_20d"`
}

func toPricePoint(p market.PricePoint) pricePoint {
	return pricePoint{
		Date:           p.Date.Format("2006-01-02"),
		Open:           p.Open,
		High:           p.High,
		Low:            p.Low,
		Close:          p.Close,
		Volume:         p.Volume,
		Return:         fptr(p.Return),
		LogReturn:      fptr(p.LogReturn),
		MA5:            fptr(p.MA5),
		MA20:           fptr(p.MA20),
		MA50:           fptr(p.MA50),
		MA200:          fptr(p.MA200),
		Volatility5:    fptr(p.Volatility5),
		Volatility20:   fptr(p.Volatility20),
		Volatility60:   fptr(p.Volatility60),
		RSI:            fptr(p.RSI),
		MACD:           fptr(p.MACD),
		MACDSignal:     fptr(p.MACDSignal),
		BBUpper:        fptr(p.BBUpper),
		BBLower:        fptr(p.BBLower),
		LiquidityScore: fptr(p.LiquidityScore),
		VolumeMA20:     fptr(p.VolumeMA20),
		VolumeRatio:    fptr(p.VolumeRatio),
		PriceChange1D:  fptr(p.PriceChange1D),
		PriceChange5D:  fptr(p.PriceChange5D),
		PriceChange20D: fptr(p.PriceChange20D),
	}
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	limit := queryInt(r, "limit", 0)

	points, err := s.repos.Prices.GetSeries(symbol, limit)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Price query failed")
		s.writeError(w, http.StatusInternalServerError, "price query failed")
		return
	}
	if len(points) == 0 {
		s.writeError(w, http.StatusNotFound, "unknown symbol "+symbol)
		return
	}

	out := make([]pricePoint, len(points))
	for i, p := range points {
		out[i] = toPricePoint(p)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"points": out,
	})
}

type dailySentiment struct {
	Date             string   `json:"date"`
	Mean             float64  `json:"mean_score"`
	Std              *float64 `json:"std_score"`
	Count            int      `json:"article_count"`
	Min              float64  `json:"min_score"`
	Max              float64  `json:"max_score"`
	MeanConfidence   float64  `json:"mean_confidence"`
	MeanIntensity    float64  `json:"mean_intensity"`
	PositiveKeywords int      `json:"positive_keywords"`
	NegativeKeywords int      `json:"negative_keywords"`
	Momentum         *float64 `json:"momentum"`
	Volatility       *float64 `json:"volatility"`
	Regime           string   `json:"regime"`
}

func toDailySentiment(d sentiment.DailySummary) dailySentiment {
	return dailySentiment{
		Date:             d.Date.Format("2006-01-02"),
		Mean:             d.Mean,
		Std:              fptr(d.Std),
		Count:            d.Count,
		Min:              d.Min,
		Max:              d.Max,
		MeanConfidence:   d.MeanConfidence,
		MeanIntensity:    d.MeanIntensity,
		PositiveKeywords: d.PositiveKeywords,
		NegativeKeywords: d.NegativeKeywords,
		Momentum:         fptr(d.Momentum),
		Volatility:       fptr(d.Volatility),
		Regime:           d.Regime,
	}
}

func (s *Server) handleDailySentiment(w http.ResponseWriter, r *http.Request) {
	daily, err := s.repos.Sentiment.GetDaily(queryInt(r, "limit", 0))
	if err != nil {
		s.log.Error().Err(err).Msg("Daily sentiment query failed")
		s.writeError(w, http.StatusInternalServerError, "sentiment query failed")
		return
	}

	out := make([]dailySentiment, len(daily))
	for i, d := range daily {
		out[i] = toDailySentiment(d)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"days": out})
}

func (s *Server) handleMacro(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.repos.Macro.GetAll()
	if err != nil {
		s.log.Error().Err(err).Msg("Macro query failed")
		s.writeError(w, http.StatusInternalServerError, "macro query failed")
		return
	}

	type row struct {
		Date             string  `json:"date"`
		GDPGrowth        float64 `json:"gdp_growth"`
		InflationRate    float64 `json:"inflation_rate"`
		UnemploymentRate float64 `json:"unemployment_rate"`
		FedFundsRate     float64 `json:"federal_funds_rate"`
		VIX              float64 `json:"vix_index"`
		DollarIndex      float64 `json:"dollar_index"`
		OilPrice         float64 `json:"oil_price"`
		TenYearTreasury  float64 `json:"ten_year_treasury"`
	}
	out := make([]row, len(snapshots))
	for i, m := range snapshots {
		out[i] = row{
			Date:             m.Date.Format("2006-01-02"),
			GDPGrowth:        m.GDPGrowth,
			InflationRate:    m.InflationRate,
			UnemploymentRate: m.UnemploymentRate,
			FedFundsRate:     m.FedFundsRate,
			VIX:              m.VIX,
			DollarIndex:      m.DollarIndex,
			OilPrice:         m.OilPrice,
			TenYearTreasury:  m.TenYearTreasury,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"months": out})
}

func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	records, err := s.repos.Fundamentals.GetSymbol(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Fundamentals query failed")
		s.writeError(w, http.StatusInternalServerError, "fundamentals query failed")
		return
	}
	if len(records) == 0 {
		s.writeError(w, http.StatusNotFound, "unknown symbol "+symbol)
		return
	}

	type row struct {
		Date    string             `json:"date"`
		Quarter string             `json:"quarter"`
		Ratios  map[string]float64 `json:"ratios"`
	}
	out := make([]row, len(records))
	for i, rec := range records {
		out[i] = row{
			Date:    rec.Date.Format("2006-01-02"),
			Quarter: rec.Quarter,
			Ratios:  rec.Ratios,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":   symbol,
		"quarters": out,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func fptr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
