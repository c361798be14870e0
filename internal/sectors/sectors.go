// Package sectors holds the static instrument universe and the per-sector
// parameter table driving the synthetic market generator.
package sectors

// Profile describes the return dynamics assigned to an instrument's sector.
// Drift and Volatility are annualized; AvgVolume is shares per day.
type Profile struct {
	Sector     string
	Drift      float64
	Volatility float64
	Beta       float64
	AvgVolume  float64
}

// Sector names used by the coarse classification.
const (
	Technology = "technology"
	Finance    = "finance"
	Healthcare = "healthcare"
	Energy     = "energy"
	Default    = "default"
)

var profiles = map[string]Profile{
	Technology: {Sector: Technology, Drift: 0.15, Volatility: 0.35, Beta: 1.2, AvgVolume: 15_000_000},
	Finance:    {Sector: Finance, Drift: 0.10, Volatility: 0.25, Beta: 1.1, AvgVolume: 8_000_000},
	Healthcare: {Sector: Healthcare, Drift: 0.12, Volatility: 0.20, Beta: 0.8, AvgVolume: 6_000_000},
	Energy:     {Sector: Energy, Drift: 0.08, Volatility: 0.40, Beta: 1.3, AvgVolume: 12_000_000},
	Default:    {Sector: Default, Drift: 0.10, Volatility: 0.22, Beta: 1.0, AvgVolume: 5_000_000},
}

var sectorMembers = map[string]string{}

func init() {
	classify := func(sector string, symbols ...string) {
		for _, s := range symbols {
			sectorMembers[s] = sector
		}
	}
	classify(Technology,
		"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA",
		"ORCL", "AMD", "CRM", "ADBE", "INTU", "IBM")
	classify(Finance,
		"JPM", "BAC", "WFC", "GS", "AXP", "USB", "PNC", "TFC", "COF", "SCHW")
	classify(Healthcare,
		"JNJ", "PFE", "UNH", "ABBV", "TMO", "ABT", "DHR", "BMY", "AMGN", "GILD")
	classify(Energy,
		"XOM", "CVX", "SLB", "OXY", "FCX", "DVN", "APA")
}

// Lookup returns the sector profile for a symbol. Symbols outside the coarse
// classification fall through to the default profile.
func Lookup(symbol string) Profile {
	if sector, ok := sectorMembers[symbol]; ok {
		return profiles[sector]
	}
	return profiles[Default]
}

// SectorOf returns the coarse sector name for a symbol.
func SectorOf(symbol string) string {
	if sector, ok := sectorMembers[symbol]; ok {
		return sector
	}
	return Default
}

// Universe returns the first n symbols of the large-cap list. n larger than
// the list length returns the whole list.
func Universe(n int) []string {
	if n > len(largeCaps) {
		n = len(largeCaps)
	}
	out := make([]string, n)
	copy(out, largeCaps[:n])
	return out
}

// UniverseSize returns the size of the full large-cap list.
func UniverseSize() int {
	return len(largeCaps)
}

// largeCaps is the S&P 500 top-300 list by market cap the study was designed
// around, in ranking order.
var largeCaps = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "BRK-B", "AVGO",

	"UNH", "JNJ", "XOM", "JPM", "V", "PG", "MA", "CVX", "HD", "ABBV",
	"PFE", "BAC", "KO", "PEP", "TMO", "COST", "MRK", "WMT", "DIS", "ABT",
	"DHR", "VZ", "CSCO", "ACN", "LIN", "ADBE", "NKE", "BMY", "PM", "T",
	"TXN", "NFLX", "RTX", "NEE", "WFC", "UPS", "LOW", "ORCL", "AMD", "CRM",

	"QCOM", "HON", "UNP", "INTU", "IBM", "AMGN", "ELV", "CAT", "SPGI", "AXP",
	"BKNG", "GE", "DE", "TJX", "ADP", "MDLZ", "SYK", "GILD", "MCD", "LMT",
	"ADI", "MMM", "CI", "SCHW", "CME", "MO", "SO", "ZTS", "CB", "DUK",
	"BSX", "TGT", "BDX", "ITW", "AON", "CL", "EQIX", "SLB", "APD", "EMR",

	"NSC", "GD", "ICE", "PNC", "FCX", "USB", "GM", "PYPL", "ETN", "WM",
	"NOC", "MCK", "D", "REGN", "FDX", "CVS", "ISRG", "ECL", "PLD", "SPG",
	"GS", "MRNA", "ATVI", "COF", "TFC", "F", "JCI", "HUM", "SRE", "MU",
	"PSA", "MCO", "AEP", "CCI", "MSI", "CMG", "KLAC", "ADSK", "FIS", "FISV",

	"APH", "EXC", "CNC", "PEG", "MCHP", "KMB", "TEL", "AIG", "DOW", "CARR",
	"CTSH", "PAYX", "OXY", "DLR", "HCA", "AMAT", "DXCM", "EW", "WELL", "AMT",
	"SBUX", "PRU", "AFL", "ALL", "ROST", "YUM", "ORLY", "EA", "CTAS", "FAST",
	"PCAR", "BK", "MTB", "PPG", "AZO", "ED", "IDXX", "IQV", "ROP", "GWW",

	"STZ", "A", "APTV", "CPRT", "NDAQ", "MKTX", "CTVA", "DD", "KHC", "EFX",
	"HPQ", "GLW", "VRSK", "BLL", "EBAY", "ABC", "WBA", "EIX", "ETR", "CDW",
	"XEL", "CERN", "OTIS", "TSN", "WEC", "STT", "DLTR", "AWK", "ES", "URI",
	"TROW", "MLM", "PPL", "RSG", "DTE", "FE", "AEE", "NTRS", "CNP", "LYB",

	"CMS", "DFS", "WY", "CLX", "VRTX", "IP", "KEY", "NI", "EXPE", "FITB",
	"EMN", "LUV", "CFG", "CAG", "HBAN", "LYV", "EXPD", "IEX", "AVB", "FRT",
	"ESS", "K", "FMC", "HSY", "J", "SYF", "RF", "L", "ATO", "TRMB",
	"CHRW", "DRI", "TDY", "BR", "FLS", "JKHY", "AOS", "PEAK", "LH", "WAB",

	"MAS", "NTAP", "ROL", "SWKS", "ZION", "LKQ", "TECH", "CE", "TTWO", "MAA",
	"PKI", "TYL", "WAT", "JBHT", "POOL", "CBOE", "ALLE", "DGX", "COO", "AKAM",
	"UDR", "MHK", "HOLX", "STE", "REG", "LDOS", "AVY", "TPG", "HRL", "PAYC",
	"TER", "CINF", "CRL", "NWSA", "PFG", "NWL", "GL", "BEN", "NVR", "AIZ",

	"LNT", "VICI", "RCL", "UHS", "DVN", "INCY", "CCL", "CMA", "HAS", "PKG",
	"VTRS", "GRMN", "CPB", "WRK", "BWA", "SEE", "PNW", "PBCT", "DVA", "RHI",
	"BXP", "HII", "HSIC", "ALK", "LVS", "NRG", "NLSN", "FTV", "RE", "ALB",
	"AAL", "GPS", "APA", "TAP", "UAA", "DISH", "HFC", "VNO", "IVZ", "PVH",
}
