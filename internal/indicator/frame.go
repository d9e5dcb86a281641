package indicator

import "equity-advisor/internal/dto"

// Params fixes the lookback periods of every indicator column in a Frame.
type Params struct {
	SMAFast    int
	SMASlow    int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBWidth    float64
}

// DefaultParams returns the calibrated indicator periods.
func DefaultParams() Params {
	return Params{
		SMAFast:    20,
		SMASlow:    50,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBPeriod:   20,
		BBWidth:    2.0,
	}
}

// Frame is a bar sequence augmented with derived indicator columns. Every
// column is a pure function of the close/volume history up to and including
// that bar; positions inside a warm-up window hold NaN. A Frame is built once
// and never mutated, so it can be shared across strategies and backtest steps.
type Frame struct {
	Bars   []dto.Bar
	Params Params

	Closes  []float64
	Highs   []float64
	Lows    []float64
	Volumes []float64

	SMAFast    []float64
	SMASlow    []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
}

// NewFrame computes all indicator columns for the given bars. Bars must be
// ascending by timestamp; the frame does not reorder them.
func NewFrame(bars []dto.Bar, p Params) *Frame {
	f := &Frame{
		Bars:    bars,
		Params:  p,
		Closes:  make([]float64, len(bars)),
		Highs:   make([]float64, len(bars)),
		Lows:    make([]float64, len(bars)),
		Volumes: make([]float64, len(bars)),
	}
	for i, b := range bars {
		f.Closes[i] = b.Close
		f.Highs[i] = b.High
		f.Lows[i] = b.Low
		f.Volumes[i] = float64(b.Volume)
	}

	f.SMAFast = SMA(f.Closes, p.SMAFast)
	f.SMASlow = SMA(f.Closes, p.SMASlow)
	f.RSI = RSI(f.Closes, p.RSIPeriod)
	f.MACD, f.MACDSignal = MACD(f.Closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	f.BBUpper, f.BBMiddle, f.BBLower = BollingerBands(f.Closes, p.BBPeriod, p.BBWidth)
	return f
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}
