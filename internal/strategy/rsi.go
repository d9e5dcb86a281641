package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"fmt"
)

// rsiAdvisor buys oversold and sells overbought conditions. Confidence scales
// linearly with how far the oscillator has pushed past the threshold.
type rsiAdvisor struct {
	cfg Config
}

func (a *rsiAdvisor) Name() string { return AdvisorRSI }

func (a *rsiAdvisor) GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal {
	if sig, short := insufficientData(a.cfg, f, idx); short {
		return sig
	}

	price := f.Closes[idx]
	rsi := f.RSI[idx]
	if !indicator.Defined(rsi) {
		return hold(price, "RSI not available")
	}

	if rsi < a.cfg.RSIOversold {
		sl, tp := longStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: clamp01((a.cfg.RSIOversold - rsi) / a.cfg.RSIOversold),
			Reason:     fmt.Sprintf("RSI oversold (%.1f)", rsi),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	if rsi > a.cfg.RSIOverbought {
		sl, tp := shortStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalSell,
			Confidence: clamp01((rsi - a.cfg.RSIOverbought) / (100 - a.cfg.RSIOverbought)),
			Reason:     fmt.Sprintf("RSI overbought (%.1f)", rsi),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	return hold(price, fmt.Sprintf("RSI neutral (%.1f)", rsi))
}
