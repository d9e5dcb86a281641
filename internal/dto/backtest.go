package dto

// Trade is a simulated position, owned exclusively by the backtest run that
// created it.
type Trade struct {
	EntryDate     int64      `json:"entry_date"`
	EntryPrice    float64    `json:"entry_price"`
	Direction     SignalType `json:"direction"`
	Size          float64    `json:"size"`
	StopLoss      float64    `json:"stop_loss,omitempty"`
	TakeProfit    float64    `json:"take_profit,omitempty"`
	ExitDate      int64      `json:"exit_date,omitempty"`
	ExitPrice     float64    `json:"exit_price,omitempty"`
	ProfitLoss    float64    `json:"profit_loss"`
	ProfitLossPct float64    `json:"profit_loss_pct"`
	Reason        string     `json:"reason"`
}

// EquityPoint is one snapshot of the simulated account per backtest step.
type EquityPoint struct {
	Timestamp    int64   `json:"timestamp"`
	Equity       float64 `json:"equity"`
	Capital      float64 `json:"capital"`
	OpenTrades   int     `json:"open_trades"`
	ClosedTrades int     `json:"closed_trades"`
}

// BacktestRequest defines the parameters for running a backtest.
type BacktestRequest struct {
	Symbol         string  `json:"symbol" validate:"required"`
	Strategy       string  `json:"strategy"`
	Range          string  `json:"range"`
	Interval       string  `json:"interval"`
	InitialCapital float64 `json:"initial_capital" validate:"gte=0"`
}

// BacktestResult summarizes one backtest session.
type BacktestResult struct {
	Symbol         string        `json:"symbol"`
	Strategy       string        `json:"strategy"`
	InitialCapital float64       `json:"initial_capital"`
	TotalTrades    int           `json:"total_trades"`
	WinningTrades  int           `json:"winning_trades"`
	LosingTrades   int           `json:"losing_trades"`
	WinRate        float64       `json:"win_rate"`
	TotalReturn    float64       `json:"total_return"`
	TotalReturnPct float64       `json:"total_return_pct"`
	MaxDrawdown    float64       `json:"max_drawdown"`
	SharpeRatio    float64       `json:"sharpe_ratio"`
	AvgWin         float64       `json:"avg_win"`
	AvgLoss        float64       `json:"avg_loss"`
	ProfitFactor   float64       `json:"profit_factor"` // gross profit / gross loss
	EquityCurve    []EquityPoint `json:"equity_curve"`
	Trades         []Trade       `json:"trades"`
}
