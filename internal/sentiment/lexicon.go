package sentiment

// Financial-domain polarity lexicon. Matching is substring-based on the
// lowercased title+description, so "gains" and "gained" both hit "gain".
var positiveWords = []string{
	"beat", "exceed", "strong", "growth", "profit", "gain", "surge", "rally",
	"bullish", "optimistic", "upgrade", "outperform", "breakthrough", "success",
	"record", "robust", "solid", "positive", "momentum", "opportunity",
	"expansion", "innovation", "leadership", "competitive", "efficient",
}

var negativeWords = []string{
	"miss", "disappoint", "decline", "loss", "drop", "fall", "crash",
	"bearish", "pessimistic", "downgrade", "underperform", "concern",
	"challenge", "risk", "uncertainty", "volatility", "pressure",
	"weakness", "struggling", "difficult", "problem", "threat",
}
