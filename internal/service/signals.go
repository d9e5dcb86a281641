package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"equity-advisor/internal/repository"
	"equity-advisor/pkg/logger"
)

type SignalService interface {
	ComputeSignals(ctx context.Context, param dto.GetStockDataParam, limit int, order string) ([]dto.BarSignal, error)
}

type signalService struct {
	cfg       *config.Config
	log       *logger.Logger
	yahooRepo repository.YahooFinanceRepository
}

func NewSignalService(cfg *config.Config, log *logger.Logger, yahooRepo repository.YahooFinanceRepository) SignalService {
	return &signalService{cfg: cfg, log: log, yahooRepo: yahooRepo}
}

// ComputeSignals builds the per-bar indicator vote feed. Each bar gets one
// equal-weight vote from each of the four indicators; voting happens on the
// raw values, rounding applies to the output only.
func (s *signalService) ComputeSignals(ctx context.Context, param dto.GetStockDataParam, limit int, order string) ([]dto.BarSignal, error) {
	data, err := s.yahooRepo.Get(ctx, param)
	if err != nil {
		return nil, err
	}

	bars := data.Bars
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })

	p := indicator.DefaultParams()
	frame := indicator.NewFrame(bars, p)
	rsi := indicator.RSIFilled(frame.Closes, p.RSIPeriod)

	rows := make([]dto.BarSignal, len(bars))
	for i, bar := range bars {
		pctChange := 0.0
		if i > 0 && frame.Closes[i-1] != 0 {
			pctChange = (frame.Closes[i]/frame.Closes[i-1] - 1) * 100
		}

		recommendation, conf, reason, votes := voteRow(frame, rsi, i)

		rows[i] = dto.BarSignal{
			Timestamp:  bar.Timestamp,
			Open:       bar.Open,
			High:       bar.High,
			Low:        bar.Low,
			Close:      bar.Close,
			Volume:     bar.Volume,
			PctChange:  roundTo(pctChange, 4),
			SMA20:      ptrRound(frame.SMAFast[i], 2),
			SMA50:      ptrRound(frame.SMASlow[i], 2),
			RSI:        roundTo(rsi[i], 2),
			MACD:       ptrRound(frame.MACD[i], 6),
			MACDSignal: ptrRound(frame.MACDSignal[i], 6),
			BBUpper:    ptrRound(frame.BBUpper[i], 2),
			BBLower:    ptrRound(frame.BBLower[i], 2),

			Recommendation: recommendation,
			Confidence:     conf,
			Reason:         reason,
			Votes:          votes,
		}
	}

	if order != "asc" {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

// voteRow tallies one BUY/SELL/HOLD vote per indicator for the bar at i.
// An indicator still inside its warm-up window votes HOLD.
func voteRow(f *indicator.Frame, rsi []float64, i int) (dto.SignalType, float64, string, map[string]int) {
	votes := map[string]int{"BUY": 0, "SELL": 0, "HOLD": 0}
	var reasons []string

	vote := func(side dto.SignalType, reason string) {
		votes[string(side)]++
		reasons = append(reasons, reason)
	}

	sma20, sma50 := f.SMAFast[i], f.SMASlow[i]
	switch {
	case !indicator.Defined(sma20) || !indicator.Defined(sma50):
		vote(dto.SignalHold, "SMA: insufficient data")
	case sma20 > sma50:
		vote(dto.SignalBuy, "SMA20 > SMA50")
	case sma20 < sma50:
		vote(dto.SignalSell, "SMA20 < SMA50")
	default:
		vote(dto.SignalHold, "SMA neutral")
	}

	switch {
	case rsi[i] < 30:
		vote(dto.SignalBuy, fmt.Sprintf("RSI oversold (%.1f)", rsi[i]))
	case rsi[i] > 70:
		vote(dto.SignalSell, fmt.Sprintf("RSI overbought (%.1f)", rsi[i]))
	default:
		vote(dto.SignalHold, fmt.Sprintf("RSI neutral (%.1f)", rsi[i]))
	}

	macd, macdSignal := f.MACD[i], f.MACDSignal[i]
	switch {
	case !indicator.Defined(macd) || !indicator.Defined(macdSignal):
		vote(dto.SignalHold, "MACD: insufficient data")
	case macd > macdSignal:
		vote(dto.SignalBuy, "MACD bullish cross")
	case macd < macdSignal:
		vote(dto.SignalSell, "MACD bearish cross")
	default:
		vote(dto.SignalHold, "MACD neutral")
	}

	upper, lower, close := f.BBUpper[i], f.BBLower[i], f.Closes[i]
	switch {
	case !indicator.Defined(upper) || !indicator.Defined(lower):
		vote(dto.SignalHold, "BB: insufficient data")
	case close < lower:
		vote(dto.SignalBuy, "Price < BB lower (oversold)")
	case close > upper:
		vote(dto.SignalSell, "Price > BB upper (overbought)")
	default:
		vote(dto.SignalHold, "Price within BB bands")
	}

	// Ties break in favor of action: BUY first, then SELL.
	recommendation := dto.SignalHold
	switch {
	case votes["BUY"] >= votes["SELL"] && votes["BUY"] >= votes["HOLD"]:
		recommendation = dto.SignalBuy
	case votes["SELL"] >= votes["HOLD"]:
		recommendation = dto.SignalSell
	}

	maxVote := votes[string(recommendation)]
	confidence := roundTo(float64(maxVote)/4, 2)

	return recommendation, confidence, strings.Join(reasons, " | "), votes
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// ptrRound converts an indicator value to its JSON representation: nil while
// inside the warm-up window, rounded otherwise.
func ptrRound(v float64, places int) *float64 {
	if !indicator.Defined(v) {
		return nil
	}
	rounded := roundTo(v, places)
	return &rounded
}
