package indicator

import "math"

// All functions return a slice the same length as the input. Positions inside
// an indicator's warm-up window hold math.NaN, the undefined marker.
//
// Numeric conventions are pinned because downstream score thresholds were
// calibrated against them: rolling standard deviation is the population form,
// EMA uses alpha = 2/(span+1) seeded with the simple average of the first
// span values, RSI is built from plain rolling means of gains and losses.

// Defined reports whether an indicator value is outside its warm-up window.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// SMA computes the simple moving average over the given period.
func SMA(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes an exponential moving average with alpha = 2/(span+1). The
// first defined value is the simple average of the first span defined inputs;
// leading NaN inputs are skipped so that EMA can be chained (MACD signal line).
func EMA(values []float64, span int) []float64 {
	out := undefinedSeries(len(values))
	if span <= 0 {
		return out
	}

	first := firstDefined(values)
	if first < 0 || len(values)-first < span {
		return out
	}

	var seed float64
	for i := first; i < first+span; i++ {
		seed += values[i]
	}
	seed /= float64(span)

	alpha := 2.0 / float64(span+1)
	out[first+span-1] = seed
	prev := seed
	for i := first + span; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// RSI computes the relative strength index over the given period. When the
// average loss is zero the value is 100 for a nonzero average gain and stays
// undefined when gains and losses are both zero.
func RSI(closes []float64, period int) []float64 {
	out := undefinedSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window, ratio undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// RSIFilled is RSI with every undefined position replaced by the neutral
// midpoint 50. Only the per-bar vote feed uses this variant; the composite
// scorer excludes undefined values instead.
func RSIFilled(closes []float64, period int) []float64 {
	out := RSI(closes, period)
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = 50
		}
	}
	return out
}

// MACD returns the oscillator line (EMA fast minus EMA slow) and its signal
// line (EMA of the oscillator line over signalSpan periods).
func MACD(closes []float64, fast, slow, signalSpan int) (line, signal []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line = undefinedSeries(len(closes))
	for i := range closes {
		if Defined(emaFast[i]) && Defined(emaSlow[i]) {
			line[i] = emaFast[i] - emaSlow[i]
		}
	}
	signal = EMA(line, signalSpan)
	return line, signal
}

// BollingerBands returns the upper, middle and lower volatility bounds:
// SMA(period) plus/minus width population standard deviations.
func BollingerBands(closes []float64, period int, width float64) (upper, middle, lower []float64) {
	middle = SMA(closes, period)
	upper = undefinedSeries(len(closes))
	lower = undefinedSeries(len(closes))

	for i := period - 1; i < len(closes); i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))
		upper[i] = mean + width*std
		lower[i] = mean - width*std
	}
	return upper, middle, lower
}

// Std computes the population standard deviation of the given values.
func Std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
