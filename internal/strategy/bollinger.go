package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"fmt"
)

// bollingerAdvisor fades touches of the volatility bands, targeting the
// middle band. A collapsed band (zero width, flat price history) carries no
// mean-reversion information and reports HOLD.
type bollingerAdvisor struct {
	cfg Config
}

func (a *bollingerAdvisor) Name() string { return AdvisorBollinger }

func (a *bollingerAdvisor) GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal {
	if sig, short := insufficientData(a.cfg, f, idx); short {
		return sig
	}

	price := f.Closes[idx]
	upper, middle, lower := f.BBUpper[idx], f.BBMiddle[idx], f.BBLower[idx]
	if !indicator.Defined(upper) || !indicator.Defined(middle) || !indicator.Defined(lower) {
		return hold(price, "volatility bands not available")
	}
	if upper == lower {
		return hold(price, "price within bands")
	}

	if price <= lower {
		distance := (lower - price) / lower
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: clamp01(distance * 10),
			Reason:     fmt.Sprintf("price at lower band (%.2f <= %.2f)", price, lower),
			Price:      price,
			StopLoss:   price * (1 - a.cfg.StopLossPct/100),
			TakeProfit: middle,
		}
	}

	if price >= upper {
		distance := (price - upper) / upper
		return dto.TradeSignal{
			Type:       dto.SignalSell,
			Confidence: clamp01(distance * 10),
			Reason:     fmt.Sprintf("price at upper band (%.2f >= %.2f)", price, upper),
			Price:      price,
			StopLoss:   price * (1 + a.cfg.StopLossPct/100),
			TakeProfit: middle,
		}
	}

	return hold(price, "price within bands")
}
