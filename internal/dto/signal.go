package dto

// SignalType is the three-way directional call of an advisor.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// TradeSignal is the output of one advisor (or the ensemble) for one bar.
// StopLoss/TakeProfit of 0 mean "not set". By convention a HOLD signal always
// carries confidence 0.
type TradeSignal struct {
	Type       SignalType `json:"signal"`
	Confidence float64    `json:"confidence"`
	Reason     string     `json:"reason"`
	Price      float64    `json:"price"`
	StopLoss   float64    `json:"stop_loss,omitempty"`
	TakeProfit float64    `json:"take_profit,omitempty"`
}

// BarSignal is one row of the per-bar indicator vote feed: the bar itself,
// the indicator columns (nil while inside a warm-up window) and the
// equal-weight consensus of the four indicators.
type BarSignal struct {
	Timestamp  int64    `json:"timestamp"`
	Open       float64  `json:"open"`
	High       float64  `json:"high"`
	Low        float64  `json:"low"`
	Close      float64  `json:"close"`
	Volume     int64    `json:"volume"`
	PctChange  float64  `json:"pct_change"`
	SMA20      *float64 `json:"sma20"`
	SMA50      *float64 `json:"sma50"`
	RSI        float64  `json:"rsi"`
	MACD       *float64 `json:"macd"`
	MACDSignal *float64 `json:"macd_signal"`
	BBUpper    *float64 `json:"bb_upper"`
	BBLower    *float64 `json:"bb_lower"`

	Recommendation SignalType     `json:"recommendation"`
	Confidence     float64        `json:"confidence"`
	Reason         string         `json:"reason"`
	Votes          map[string]int `json:"votes"`
}
