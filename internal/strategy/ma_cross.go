package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
)

// maCrossAdvisor trades golden/death crosses of the fast and slow moving
// averages, and keeps buying while the trend holds in bullish order.
type maCrossAdvisor struct {
	cfg Config
}

func (a *maCrossAdvisor) Name() string { return AdvisorMACross }

func (a *maCrossAdvisor) GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal {
	if sig, short := insufficientData(a.cfg, f, idx); short {
		return sig
	}

	price := f.Closes[idx]
	if idx < 1 {
		return hold(price, "moving averages not available")
	}
	fast, slow := f.SMAFast[idx], f.SMASlow[idx]
	prevFast, prevSlow := f.SMAFast[idx-1], f.SMASlow[idx-1]
	if !indicator.Defined(fast) || !indicator.Defined(slow) ||
		!indicator.Defined(prevFast) || !indicator.Defined(prevSlow) {
		return hold(price, "moving averages not available")
	}

	switch {
	case prevFast <= prevSlow && fast > slow:
		sl, tp := longStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: clamp01((fast - slow) / slow * 10),
			Reason:     "golden cross detected",
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}

	case prevFast >= prevSlow && fast < slow:
		sl, tp := shortStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalSell,
			Confidence: clamp01((slow - fast) / fast * 10),
			Reason:     "death cross detected",
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}

	case fast > slow && price > fast:
		sl, tp := longStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: 0.5,
			Reason:     "uptrend confirmed, price above both averages",
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	return hold(price, "no moving average crossover")
}
