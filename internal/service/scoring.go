package service

import (
	"context"
	"fmt"
	"math"

	"equity-advisor/internal/contract"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"equity-advisor/pkg/logger"
)

// Composite score category weights. Auxiliary scorers shrink these
// proportionally by taking a slice of the total.
const (
	weightTechnical = 0.40
	weightMomentum  = 0.30
	weightSentiment = 0.30
)

// minScoringBars is the history below which the scorer refuses to guess and
// reports an all-neutral result.
const minScoringBars = 50

type ScoringService interface {
	Score(ctx context.Context, f *indicator.Frame) *dto.StockScore
}

type scoringService struct {
	log *logger.Logger
	aux []contract.AuxiliaryScorer
}

// NewScoringService builds the composite scorer. Auxiliary scorer weights
// must each sit in (0,1) and sum to strictly less than 1; the remainder is
// the weight of the built-in composite.
func NewScoringService(log *logger.Logger, aux ...contract.AuxiliaryScorer) (ScoringService, error) {
	var sum float64
	for _, a := range aux {
		w := a.Weight()
		if w <= 0 || w >= 1 {
			return nil, fmt.Errorf("auxiliary scorer %q has weight %v out of (0,1)", a.Name(), w)
		}
		sum += w
	}
	if sum >= 1 {
		return nil, fmt.Errorf("auxiliary scorer weights sum to %v, must leave room for the base score", sum)
	}
	return &scoringService{log: log, aux: aux}, nil
}

func (s *scoringService) Score(ctx context.Context, f *indicator.Frame) *dto.StockScore {
	if f.Len() < minScoringBars {
		return &dto.StockScore{
			TotalScore:     5.0,
			Rating:         dto.RatingNeutral,
			TechnicalScore: 5.0,
			MomentumScore:  5.0,
			SentimentScore: 5.0,
			Confidence:     dto.ConfidenceLow,
			Signals:        []string{"Insufficient history for full analysis"},
		}
	}

	technical := technicalScore(f)
	momentum := momentumScore(f)
	sentiment := sentimentScore(f)

	total := technical*weightTechnical + momentum*weightMomentum + sentiment*weightSentiment
	signals := generateSignals(f, total)

	if len(s.aux) > 0 {
		total, signals = s.blendAuxiliary(ctx, f, total, signals)
	}
	total = round1(total)

	return &dto.StockScore{
		TotalScore:     total,
		Rating:         rating(total),
		TechnicalScore: round1(technical),
		MomentumScore:  round1(momentum),
		SentimentScore: round1(sentiment),
		Confidence:     confidence(f.Len()),
		Signals:        signals,
	}
}

// blendAuxiliary folds the pluggable scorers into the total. A failing scorer
// contributes a neutral 5.0 so one flaky upstream cannot sink the analysis.
func (s *scoringService) blendAuxiliary(ctx context.Context, f *indicator.Frame, base float64, signals []string) (float64, []string) {
	var auxWeight float64
	for _, a := range s.aux {
		auxWeight += a.Weight()
	}
	total := base * (1 - auxWeight)

	for _, a := range s.aux {
		result, err := a.Score(ctx, f)
		if err != nil {
			s.log.WarnContext(ctx, "auxiliary scorer failed, using neutral contribution",
				logger.StringField("scorer", a.Name()),
				logger.ErrorField(err))
			total += 5.0 * a.Weight()
			continue
		}
		total += result.Score * a.Weight()
		signals = append(signals, fmt.Sprintf("%s: %.1f/10 (%s)", a.Name(), result.Score, result.Label))
	}
	return total, signals
}

// technicalScore grades RSI, MACD, moving averages and band position on the
// last bar. Each available indicator contributes its points; the average is
// rescaled so a full sweep of top marks lands at 10.
func technicalScore(f *indicator.Frame) float64 {
	n := f.Len()
	last := n - 1
	var points []float64

	if rsi := f.RSI[last]; indicator.Defined(rsi) {
		switch {
		case rsi < 30:
			points = append(points, 3.0)
		case rsi < 40:
			points = append(points, 2.0)
		case rsi <= 60:
			points = append(points, 1.0)
		case rsi < 70:
			points = append(points, 0.5)
		default:
			points = append(points, 0.0)
		}
	}

	if macd, signal := f.MACD[last], f.MACDSignal[last]; indicator.Defined(macd) && indicator.Defined(signal) {
		switch {
		case macd > signal && macd > 0:
			points = append(points, 2.5)
		case macd > signal:
			points = append(points, 1.5)
		case macd < signal && macd < 0:
			points = append(points, 0.0)
		default:
			points = append(points, 0.5)
		}
	}

	if sma20, sma50 := f.SMAFast[last], f.SMASlow[last]; indicator.Defined(sma20) && indicator.Defined(sma50) {
		close := f.Closes[last]
		switch {
		case close > sma20 && sma20 > sma50:
			points = append(points, 2.5)
		case close > sma20 || close > sma50:
			points = append(points, 1.5)
		case close < sma20 && sma20 < sma50:
			points = append(points, 0.0)
		default:
			points = append(points, 0.5)
		}
	}

	if lower, middle, upper := f.BBLower[last], f.BBMiddle[last], f.BBUpper[last]; indicator.Defined(lower) && indicator.Defined(middle) && indicator.Defined(upper) {
		close := f.Closes[last]
		position := 0.5
		if bbRange := upper - lower; bbRange > 0 {
			position = (close - lower) / bbRange
		}
		switch {
		case position < 0.2:
			points = append(points, 2.0)
		case position < 0.4:
			points = append(points, 1.5)
		case position <= 0.6:
			points = append(points, 1.0)
		case position > 0.8:
			points = append(points, 0.0)
		default:
			points = append(points, 0.5)
		}
	}

	return normalizePoints(points, 3)
}

// momentumScore grades recent returns, relative volume and the trend of
// highs and lows.
func momentumScore(f *indicator.Frame) float64 {
	n := f.Len()
	var points []float64

	if n >= 21 {
		returns5d := (f.Closes[n-1]/f.Closes[n-6] - 1) * 100
		returns20d := (f.Closes[n-1]/f.Closes[n-21] - 1) * 100

		switch {
		case returns5d > 5:
			points = append(points, 2.0)
		case returns5d > 2:
			points = append(points, 1.5)
		case returns5d > 0:
			points = append(points, 1.0)
		case returns5d > -2:
			points = append(points, 0.5)
		default:
			points = append(points, 0.0)
		}

		switch {
		case returns20d > 10:
			points = append(points, 2.0)
		case returns20d > 5:
			points = append(points, 1.5)
		case returns20d > 0:
			points = append(points, 1.0)
		case returns20d > -5:
			points = append(points, 0.5)
		default:
			points = append(points, 0.0)
		}
	}

	if ratio, ok := relativeVolume(f); ok {
		switch {
		case ratio > 2:
			points = append(points, 3.0)
		case ratio > 1.5:
			points = append(points, 2.0)
		case ratio > 1:
			points = append(points, 1.5)
		case ratio > 0.7:
			points = append(points, 1.0)
		default:
			points = append(points, 0.5)
		}
	}

	if n >= 10 {
		var higherHighs, higherLows int
		for i := n - 9; i < n; i++ {
			if f.Highs[i] > f.Highs[i-1] {
				higherHighs++
			}
			if f.Lows[i] > f.Lows[i-1] {
				higherLows++
			}
		}
		points = append(points, float64(higherHighs+higherLows)/18*3)
	}

	return normalizePoints(points, 3)
}

// sentimentScore grades the price position inside its yearly range,
// short-term volatility and the recent streak of up days.
func sentimentScore(f *indicator.Frame) float64 {
	n := f.Len()
	last := n - 1
	var points []float64

	if n >= 252 {
		high52w, low52w := rangeExtremes(f, 252)
		if high52w > low52w {
			position := (f.Closes[last] - low52w) / (high52w - low52w)
			switch {
			case position < 0.2:
				points = append(points, 4.0)
			case position < 0.4:
				points = append(points, 3.0)
			case position <= 0.6:
				points = append(points, 2.0)
			case position < 0.8:
				points = append(points, 1.0)
			default:
				points = append(points, 0.0)
			}
		}
	} else if n >= 60 {
		high3m, low3m := rangeExtremes(f, 60)
		if high3m > low3m {
			position := (f.Closes[last] - low3m) / (high3m - low3m)
			points = append(points, position*2+1)
		}
	}

	if n >= 21 {
		returns := make([]float64, 0, 20)
		for i := n - 20; i < n; i++ {
			returns = append(returns, f.Closes[i]/f.Closes[i-1]-1)
		}
		volatility := indicator.Std(returns) * 100
		switch {
		case volatility < 1:
			points = append(points, 3.0)
		case volatility < 2:
			points = append(points, 2.0)
		case volatility < 3:
			points = append(points, 1.5)
		case volatility < 5:
			points = append(points, 1.0)
		default:
			points = append(points, 0.5)
		}
	}

	if n >= 11 {
		var positiveDays int
		for i := n - 10; i < n; i++ {
			if f.Closes[i] > f.Closes[i-1] {
				positiveDays++
			}
		}
		switch {
		case positiveDays >= 7:
			points = append(points, 3.0)
		case positiveDays >= 6:
			points = append(points, 2.5)
		case positiveDays >= 5:
			points = append(points, 2.0)
		case positiveDays >= 4:
			points = append(points, 1.5)
		default:
			points = append(points, 0.5)
		}
	}

	return normalizePoints(points, 4)
}

// generateSignals emits the human-readable highlights of the last bar.
func generateSignals(f *indicator.Frame, total float64) []string {
	n := f.Len()
	last := n - 1
	var signals []string

	if rsi := f.RSI[last]; indicator.Defined(rsi) {
		if rsi < 30 {
			signals = append(signals, fmt.Sprintf("RSI oversold (%.1f), potential buying opportunity", rsi))
		} else if rsi > 70 {
			signals = append(signals, fmt.Sprintf("RSI overbought (%.1f), consider selling", rsi))
		}
	}

	if last >= 1 {
		macd, signal := f.MACD[last], f.MACDSignal[last]
		prevMACD, prevSignal := f.MACD[last-1], f.MACDSignal[last-1]
		if indicator.Defined(macd) && indicator.Defined(signal) &&
			indicator.Defined(prevMACD) && indicator.Defined(prevSignal) {
			if prevMACD <= prevSignal && macd > signal {
				signals = append(signals, "MACD crossed above signal line, bullish")
			} else if prevMACD >= prevSignal && macd < signal {
				signals = append(signals, "MACD crossed below signal line, bearish")
			}
		}
	}

	if sma20, sma50 := f.SMAFast[last], f.SMASlow[last]; indicator.Defined(sma20) && indicator.Defined(sma50) {
		close := f.Closes[last]
		if close > sma20 && close > sma50 {
			signals = append(signals, "Price above SMA 20 and SMA 50, uptrend")
		} else if close < sma20 && close < sma50 {
			signals = append(signals, "Price below SMA 20 and SMA 50, downtrend")
		}
	}

	if ratio, ok := relativeVolume(f); ok && ratio > 2 {
		signals = append(signals, fmt.Sprintf("Exceptional volume (%.1fx average)", ratio))
	}

	if total >= 7 {
		signals = append(signals, fmt.Sprintf("Excellent score (%.1f/10), strong upside potential", total))
	} else if total <= 3 {
		signals = append(signals, fmt.Sprintf("Low score (%.1f/10), bearish signals dominate", total))
	}

	if len(signals) == 0 {
		signals = []string{"No notable signals"}
	}
	return signals
}

// relativeVolume compares the last bar's volume against the average of the
// 20 bars before it.
func relativeVolume(f *indicator.Frame) (float64, bool) {
	n := f.Len()
	if n < 21 {
		return 0, false
	}
	var sum float64
	for i := n - 21; i < n-1; i++ {
		sum += f.Volumes[i]
	}
	avg := sum / 20
	if avg <= 0 {
		return 0, false
	}
	return f.Volumes[n-1] / avg, true
}

func rangeExtremes(f *indicator.Frame, window int) (high, low float64) {
	n := f.Len()
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := n - window; i < n; i++ {
		high = math.Max(high, f.Highs[i])
		low = math.Min(low, f.Lows[i])
	}
	return high, low
}

// normalizePoints rescales the average contribution against maxPoints onto a
// 0-10 scale, defaulting to neutral when nothing contributed.
func normalizePoints(points []float64, maxPoints float64) float64 {
	if len(points) == 0 {
		return 5.0
	}
	var sum float64
	for _, p := range points {
		sum += p
	}
	score := sum / float64(len(points)) * 10 / maxPoints
	return math.Min(10, math.Max(0, score))
}

func rating(score float64) string {
	switch {
	case score >= 8.0:
		return dto.RatingStrongBuy
	case score >= 6.5:
		return dto.RatingBuy
	case score >= 5.5:
		return dto.RatingHold
	case score >= 4.0:
		return dto.RatingNeutral
	case score >= 2.5:
		return dto.RatingSell
	default:
		return dto.RatingStrongSell
	}
}

func confidence(barCount int) string {
	switch {
	case barCount >= 252:
		return dto.ConfidenceHigh
	case barCount >= 60:
		return dto.ConfidenceMedium
	default:
		return dto.ConfidenceLow
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
