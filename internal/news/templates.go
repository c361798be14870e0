package news

// template is one headline pattern. The %s placeholder takes the company
// name in both title and description.
type template struct {
	title       string
	description string
	sentiment   string
}

type category struct {
	name      string
	templates []template
}

// Category order is fixed; reordering changes every seeded run.
var categories = []category{
	{"earnings_positive", []template{
		{
			"%s Beats Earnings Expectations",
			"%s reported quarterly earnings that exceeded analyst expectations, driven by strong revenue growth and improved operational efficiency.",
			"positive",
		},
		{
			"%s Posts Record Quarterly Revenue",
			"%s announced record quarterly revenue, surpassing previous highs and demonstrating strong market position.",
			"positive",
		},
		{
			"%s Delivers Strong Financial Results",
			"%s delivered robust financial performance with revenue and earnings both exceeding Wall Street forecasts.",
			"positive",
		},
	}},
	{"earnings_negative", []template{
		{
			"%s Misses Earnings Estimates",
			"%s reported disappointing quarterly results, falling short of analyst expectations amid challenging market conditions.",
			"negative",
		},
		{
			"%s Reports Declining Revenue",
			"%s announced a decline in quarterly revenue, citing increased competition and economic headwinds.",
			"negative",
		},
		{
			"%s Warns of Lower Guidance",
			"%s issued lower forward guidance, expressing concerns about market volatility and operational challenges.",
			"negative",
		},
	}},
	{"analyst_upgrades", []template{
		{
			"%s Upgraded by Major Investment Bank",
			"A leading investment bank upgraded %s citing strong fundamentals and positive long-term outlook.",
			"positive",
		},
		{
			"Analysts Raise Price Target for %s",
			"Multiple analysts increased their price targets for %s following strong operational performance.",
			"positive",
		},
	}},
	{"analyst_downgrades", []template{
		{
			"%s Downgraded on Growth Concerns",
			"Analysts downgraded %s citing concerns over slowing growth and increased market competition.",
			"negative",
		},
		{
			"Investment Bank Cuts %s Rating",
			"A major investment bank reduced its rating on %s due to regulatory concerns and market headwinds.",
			"negative",
		},
	}},
	{"product_innovation", []template{
		{
			"%s Announces Breakthrough Innovation",
			"%s unveiled a revolutionary new product that could transform the industry and drive future growth.",
			"positive",
		},
		{
			"%s Launches Next-Generation Technology",
			"%s introduced cutting-edge technology that positions the company at the forefront of innovation.",
			"positive",
		},
	}},
	{"regulatory_news", []template{
		{
			"%s Faces Regulatory Investigation",
			"%s is under investigation by regulatory authorities over potential compliance violations.",
			"negative",
		},
		{
			"%s Receives Regulatory Approval",
			"%s obtained key regulatory approval for its new product, clearing a major hurdle for commercialization.",
			"positive",
		},
	}},
	{"market_general", []template{
		{
			"%s Maintains Market Leadership",
			"%s continues to demonstrate strong market position amid evolving industry dynamics.",
			"neutral",
		},
		{
			"%s Adapts to Market Changes",
			"%s announced strategic initiatives to adapt to changing market conditions and customer needs.",
			"neutral",
		},
	}},
	{"merger_acquisition", []template{
		{
			"%s Announces Strategic Acquisition",
			"%s announced the acquisition of a complementary business to strengthen its market position.",
			"positive",
		},
		{
			"%s Explores Strategic Partnerships",
			"%s is exploring strategic partnerships to enhance its competitive capabilities.",
			"neutral",
		},
	}},
}

// Companies mentioned in headlines. Display names, not tickers.
var companies = []string{
	"Apple", "Microsoft", "Alphabet", "Amazon", "NVIDIA", "Tesla", "Meta",
	"Berkshire Hathaway", "UnitedHealth", "Johnson & Johnson", "ExxonMobil",
	"JPMorgan Chase", "Visa", "Procter & Gamble", "Mastercard", "Chevron",
	"Home Depot", "AbbVie", "Pfizer", "Bank of America", "Coca-Cola",
	"PepsiCo", "Thermo Fisher", "Costco", "Merck", "Walmart", "Disney",
	"Abbott", "Danaher", "Verizon", "Cisco", "Accenture", "Linde",
	"Adobe", "Nike", "Bristol Myers", "Philip Morris", "AT&T", "Intel",
	"Netflix", "Raytheon", "NextEra Energy", "Wells Fargo", "Lowe's",
	"Oracle", "AMD", "Salesforce", "Qualcomm", "Honeywell", "Union Pacific",
}

var sources = []string{
	"Reuters", "Bloomberg", "Wall Street Journal", "Financial Times",
	"CNBC", "MarketWatch", "Yahoo Finance", "Business Insider",
	"Forbes", "CNN Business", "Associated Press", "Dow Jones",
	"Benzinga", "Seeking Alpha", "TheStreet", "Barron's",
	"Investor's Business Daily", "Market News", "Financial News",
	"Trade News", "Sector Analysis", "Industry Report",
}

// Categories returns the category names in draw order.
func Categories() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.name
	}
	return out
}
