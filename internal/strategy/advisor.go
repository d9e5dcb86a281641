package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"fmt"
	"math"
)

// Advisor names accepted by New.
const (
	AdvisorRSI       = "rsi"
	AdvisorMACD      = "macd"
	AdvisorMACross   = "ma_cross"
	AdvisorBollinger = "bollinger"
	AdvisorEnsemble  = "ensemble"
)

// minBarsFloor guarantees indicator availability before any advisor speaks.
const minBarsFloor = 50

// Config holds every tunable of an advisor instance. It is immutable once an
// advisor is constructed; changing a parameter means constructing a new one.
type Config struct {
	Indicators indicator.Params

	RSIOversold   float64
	RSIOverbought float64

	// Risk management, all in percent.
	RiskPerTrade    float64
	MaxOpenTrades   int
	StopLossPct     float64
	TakeProfitPct   float64
	TrailingStopPct float64 // 0 disables the trailing stop

	// Minimum composite score required before acting on a signal.
	MinScore float64

	EnsembleWeights   []float64
	EnsembleThreshold float64
}

// DefaultConfig returns the calibrated advisor parameters.
func DefaultConfig() Config {
	return Config{
		Indicators:        indicator.DefaultParams(),
		RSIOversold:       30,
		RSIOverbought:     70,
		RiskPerTrade:      2.0,
		MaxOpenTrades:     3,
		StopLossPct:       3.0,
		TakeProfitPct:     6.0,
		TrailingStopPct:   0,
		MinScore:          6.0,
		EnsembleWeights:   []float64{0.25, 0.30, 0.25, 0.20},
		EnsembleThreshold: 0.4,
	}
}

// Validate fails fast on programmer errors; data-sufficiency conditions are
// never reported here.
func (c Config) Validate() error {
	p := c.Indicators
	for _, period := range []int{p.SMAFast, p.SMASlow, p.RSIPeriod, p.MACDFast, p.MACDSlow, p.MACDSignal, p.BBPeriod} {
		if period <= 0 {
			return fmt.Errorf("invalid config: indicator periods must be positive, got %+v", p)
		}
	}
	if p.BBWidth <= 0 {
		return fmt.Errorf("invalid config: band width must be positive, got %v", p.BBWidth)
	}
	if c.RSIOversold <= 0 || c.RSIOverbought >= 100 || c.RSIOversold >= c.RSIOverbought {
		return fmt.Errorf("invalid config: RSI thresholds %v/%v out of order", c.RSIOversold, c.RSIOverbought)
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 100 {
		return fmt.Errorf("invalid config: risk per trade %v%% out of range", c.RiskPerTrade)
	}
	if c.MaxOpenTrades <= 0 {
		return fmt.Errorf("invalid config: max open trades must be positive, got %d", c.MaxOpenTrades)
	}
	if c.StopLossPct <= 0 || c.TakeProfitPct <= 0 || c.TrailingStopPct < 0 {
		return fmt.Errorf("invalid config: stop/target percentages must be positive")
	}
	if len(c.EnsembleWeights) != 4 {
		return fmt.Errorf("invalid config: ensemble needs 4 weights, got %d", len(c.EnsembleWeights))
	}
	var sum float64
	for _, w := range c.EnsembleWeights {
		if w < 0 {
			return fmt.Errorf("invalid config: ensemble weight %v is negative", w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("invalid config: ensemble weights sum to %v, want 1.0", sum)
	}
	if c.EnsembleThreshold <= 0 || c.EnsembleThreshold >= 1 {
		return fmt.Errorf("invalid config: ensemble threshold %v out of (0,1)", c.EnsembleThreshold)
	}
	return nil
}

// MinBars is the number of bars an advisor needs before generating anything
// other than an insufficient-data HOLD.
func (c Config) MinBars() int {
	if c.Indicators.SMASlow > minBarsFloor {
		return c.Indicators.SMASlow
	}
	return minBarsFloor
}

// Advisor generates a directional signal from the bar at idx plus enough
// trailing context to detect crossovers. Implementations are pure: the same
// frame and index always produce the same signal.
type Advisor interface {
	Name() string
	GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal
}

// New constructs the advisor registered under the given name. The
// configuration is validated once here, not inside signal generation.
func New(name string, cfg Config) (Advisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch name {
	case AdvisorRSI:
		return &rsiAdvisor{cfg: cfg}, nil
	case AdvisorMACD:
		return &macdAdvisor{cfg: cfg}, nil
	case AdvisorMACross:
		return &maCrossAdvisor{cfg: cfg}, nil
	case AdvisorBollinger:
		return &bollingerAdvisor{cfg: cfg}, nil
	case AdvisorEnsemble:
		return newEnsembleAdvisor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown advisor %q", name)
	}
}

func hold(price float64, reason string) dto.TradeSignal {
	return dto.TradeSignal{
		Type:       dto.SignalHold,
		Confidence: 0,
		Reason:     reason,
		Price:      price,
	}
}

// insufficientData is the shared lookback guard every advisor applies first.
func insufficientData(cfg Config, f *indicator.Frame, idx int) (dto.TradeSignal, bool) {
	if idx < 0 || idx >= f.Len() {
		return hold(0, "insufficient data"), true
	}
	if idx+1 < cfg.MinBars() {
		return hold(f.Closes[idx], "insufficient data"), true
	}
	return dto.TradeSignal{}, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// longStops derives stop/target below/above the current price for a BUY.
func longStops(cfg Config, price float64) (stopLoss, takeProfit float64) {
	return price * (1 - cfg.StopLossPct/100), price * (1 + cfg.TakeProfitPct/100)
}

// shortStops derives stop/target above/below the current price for a SELL.
func shortStops(cfg Config, price float64) (stopLoss, takeProfit float64) {
	return price * (1 + cfg.StopLossPct/100), price * (1 - cfg.TakeProfitPct/100)
}
