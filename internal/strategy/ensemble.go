package strategy

import (
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"fmt"
	"strings"
)

// ensembleAdvisor blends the four base advisors with fixed weights. A side
// wins only when its weighted score clears the consensus threshold and beats
// the opposite side.
type ensembleAdvisor struct {
	cfg  Config
	subs []Advisor
}

func newEnsembleAdvisor(cfg Config) *ensembleAdvisor {
	return &ensembleAdvisor{
		cfg: cfg,
		subs: []Advisor{
			&rsiAdvisor{cfg: cfg},
			&macdAdvisor{cfg: cfg},
			&maCrossAdvisor{cfg: cfg},
			&bollingerAdvisor{cfg: cfg},
		},
	}
}

func (a *ensembleAdvisor) Name() string { return AdvisorEnsemble }

func (a *ensembleAdvisor) GenerateSignal(f *indicator.Frame, idx int) dto.TradeSignal {
	if sig, short := insufficientData(a.cfg, f, idx); short {
		return sig
	}

	signals := make([]dto.TradeSignal, len(a.subs))
	for i, sub := range a.subs {
		signals[i] = sub.GenerateSignal(f, idx)
	}
	return a.combine(signals, f.Closes[idx])
}

// combine folds the weighted sub-signals into one decision.
func (a *ensembleAdvisor) combine(signals []dto.TradeSignal, price float64) dto.TradeSignal {
	var buyScore, sellScore float64
	var buyReasons, sellReasons []string

	for i, sig := range signals {
		weight := a.cfg.EnsembleWeights[i]
		switch sig.Type {
		case dto.SignalBuy:
			buyScore += weight * sig.Confidence
			buyReasons = append(buyReasons, sig.Reason)
		case dto.SignalSell:
			sellScore += weight * sig.Confidence
			sellReasons = append(sellReasons, sig.Reason)
		}
	}

	threshold := a.cfg.EnsembleThreshold
	if buyScore > threshold && buyScore > sellScore {
		sl, tp := longStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalBuy,
			Confidence: clamp01(buyScore),
			Reason:     "Bullish consensus: " + topReasons(buyReasons),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}
	if sellScore > threshold && sellScore > buyScore {
		sl, tp := shortStops(a.cfg, price)
		return dto.TradeSignal{
			Type:       dto.SignalSell,
			Confidence: clamp01(sellScore),
			Reason:     "Bearish consensus: " + topReasons(sellReasons),
			Price:      price,
			StopLoss:   sl,
			TakeProfit: tp,
		}
	}

	return hold(price, fmt.Sprintf("No consensus (buy %.2f, sell %.2f)", buyScore, sellScore))
}

func topReasons(reasons []string) string {
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, "; ")
}
