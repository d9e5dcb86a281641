package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"math"
)

// macdAdvisor trades the crossover of the MACD line with its signal line
// between the previous and the current bar.
type macdAdvisor struct {
	cfg Config
}

func (a *macdAdvisor) Name() string { return AdvisorMACD }

func (a *macdAdvisor) GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal {
	if sig, short := insufficientData(a.cfg, f, idx); short {
		return sig
	}

	price := f.Closes[idx]
	if idx < 1 {
		return hold(price, "MACD not available")
	}
	macd, signal := f.MACD[idx], f.MACDSignal[idx]
	prevMACD, prevSignal := f.MACD[idx-1], f.MACDSignal[idx-1]
	if !indicator.Defined(macd) || !indicator.Defined(signal) ||
		!indicator.Defined(prevMACD) || !indicator.Defined(prevSignal) {
		return hold(price, "MACD not available")
	}

	// Gap relative to the oscillator's own magnitude; a line crossing exactly
	// through zero counts as maximal.
	confidence := 1.0
	if macd != 0 {
		confidence = clamp01(math.Abs(macd-signal) / math.Abs(macd))
	}

	if prevMACD <= prevSignal && macd > signal {
		sl, tp := longStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: confidence,
			Reason:     "MACD crossed above signal line",
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	if prevMACD >= prevSignal && macd < signal {
		sl, tp := shortStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalSell,
			Confidence: confidence,
			Reason:     "MACD crossed below signal line",
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	return hold(price, "no MACD crossover")
}
