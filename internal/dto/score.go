package dto

// Rating labels for the composite 0-10 score, from a fixed threshold ladder.
const (
	RatingStrongBuy  = "STRONG BUY"
	RatingBuy        = "BUY"
	RatingHold       = "HOLD"
	RatingNeutral    = "NEUTRAL"
	RatingSell       = "SELL"
	RatingStrongSell = "STRONG SELL"
)

// Confidence levels, driven by how much history is available.
const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// StockScore is the composite rating for one instrument at one point in time.
// Sub-scores and the total are all on a 0-10 scale.
type StockScore struct {
	TotalScore     float64  `json:"total_score"`
	Rating         string   `json:"rating"`
	TechnicalScore float64  `json:"technical_score"`
	MomentumScore  float64  `json:"momentum_score"`
	SentimentScore float64  `json:"sentiment_score"`
	Confidence     string   `json:"confidence"`
	Signals        []string `json:"signals"`
}

// StockAnalysisResult bundles everything the advisor produces for one symbol.
type StockAnalysisResult struct {
	Symbol      string      `json:"symbol"`
	MarketPrice float64     `json:"market_price"`
	BarCount    int         `json:"bar_count"`
	Score       *StockScore `json:"score"`
	Signal      TradeSignal `json:"signal"`
}
