package indicator

import (
	"math"
	"testing"

	"equity-advisor/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSeries(t *testing.T, want, got []float64) {
	t.Helper()
	require.Equal(t, len(want), len(got))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "index %d", i)
	}
}

func nan() float64 { return math.NaN() }

func TestSMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   []float64
	}{
		{
			name:   "rolling window",
			values: []float64{1, 2, 3, 4, 5},
			period: 3,
			want:   []float64{nan(), nan(), 2, 3, 4},
		},
		{
			name:   "period equals length",
			values: []float64{2, 4, 6},
			period: 3,
			want:   []float64{nan(), nan(), 4},
		},
		{
			name:   "period longer than input",
			values: []float64{1, 2},
			period: 5,
			want:   []float64{nan(), nan()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSeries(t, tt.want, SMA(tt.values, tt.period))
		})
	}
}

func TestEMA(t *testing.T) {
	t.Run("seeded with simple average", func(t *testing.T) {
		// alpha = 0.5 for span 3: seed 2, then 3, then 4.
		assertSeries(t, []float64{nan(), nan(), 2, 3, 4}, EMA([]float64{1, 2, 3, 4, 5}, 3))
	})

	t.Run("skips leading undefined values", func(t *testing.T) {
		values := []float64{nan(), nan(), 1, 2, 3, 4}
		assertSeries(t, []float64{nan(), nan(), nan(), nan(), 2, 3}, EMA(values, 3))
	})

	t.Run("not enough defined values", func(t *testing.T) {
		assertSeries(t, []float64{nan(), nan()}, EMA([]float64{1, 2}, 3))
	})
}

func TestRSI(t *testing.T) {
	t.Run("mixed gains and losses", func(t *testing.T) {
		// Window gains 2/3 vs losses 1/3 give RS = 2, RSI = 66.67.
		got := RSI([]float64{10, 11, 12, 11, 12}, 3)
		assertSeries(t, []float64{nan(), nan(), nan(), 100 - 100.0/3, 100 - 100.0/3}, got)
	})

	t.Run("pure uptrend pins at 100", func(t *testing.T) {
		got := RSI([]float64{1, 2, 3, 4, 5, 6}, 3)
		for i := 3; i < len(got); i++ {
			assert.Equal(t, 100.0, got[i])
		}
	})

	t.Run("pure downtrend pins at 0", func(t *testing.T) {
		got := RSI([]float64{6, 5, 4, 3, 2, 1}, 3)
		for i := 3; i < len(got); i++ {
			assert.Equal(t, 0.0, got[i])
		}
	})

	t.Run("flat window stays undefined", func(t *testing.T) {
		got := RSI([]float64{5, 5, 5, 5, 5}, 3)
		for _, v := range got {
			assert.True(t, math.IsNaN(v))
		}
	})

	t.Run("bounded in 0..100", func(t *testing.T) {
		closes := []float64{10, 12, 9, 14, 13, 11, 15, 16, 12, 17, 14, 18, 13, 19, 20, 15}
		for _, v := range RSI(closes, 5) {
			if Defined(v) {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 100.0)
			}
		}
	})
}

func TestRSIFilled(t *testing.T) {
	got := RSIFilled([]float64{5, 5, 5, 5, 5}, 3)
	assertSeries(t, []float64{50, 50, 50, 50, 50}, got)
}

func TestMACD(t *testing.T) {
	t.Run("warm-up boundaries with default spans", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		line, signal := MACD(closes, 12, 26, 9)

		// Line needs the slow average, the signal line needs 9 more values.
		assert.True(t, math.IsNaN(line[24]))
		assert.True(t, Defined(line[25]))
		assert.True(t, math.IsNaN(signal[32]))
		assert.True(t, Defined(signal[33]))
	})

	t.Run("flat series collapses to zero", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100
		}
		line, signal := MACD(closes, 12, 26, 9)
		assert.Equal(t, 0.0, line[39])
		assert.Equal(t, 0.0, signal[39])
	})

	t.Run("uptrend keeps line above signal", func(t *testing.T) {
		closes := make([]float64, 60)
		price := 100.0
		for i := range closes {
			closes[i] = price
			price *= 1.01
		}
		line, signal := MACD(closes, 12, 26, 9)
		assert.Greater(t, line[59], signal[59])
		assert.Greater(t, line[59], 0.0)
	})
}

func TestBollingerBands(t *testing.T) {
	t.Run("population deviation", func(t *testing.T) {
		upper, middle, lower := BollingerBands([]float64{2, 4, 6}, 3, 2)
		std := math.Sqrt(8.0 / 3.0)
		assertSeries(t, []float64{nan(), nan(), 4}, middle)
		assertSeries(t, []float64{nan(), nan(), 4 + 2*std}, upper)
		assertSeries(t, []float64{nan(), nan(), 4 - 2*std}, lower)
	})

	t.Run("flat series collapses band width", func(t *testing.T) {
		closes := []float64{7, 7, 7, 7, 7}
		upper, middle, lower := BollingerBands(closes, 3, 2)
		for i := 2; i < len(closes); i++ {
			assert.Equal(t, 7.0, upper[i])
			assert.Equal(t, 7.0, middle[i])
			assert.Equal(t, 7.0, lower[i])
		}
	})

	t.Run("ordering invariant", func(t *testing.T) {
		closes := []float64{10, 12, 9, 14, 13, 11, 15, 16, 12, 17}
		upper, middle, lower := BollingerBands(closes, 4, 2)
		for i := range closes {
			if !Defined(middle[i]) {
				continue
			}
			assert.LessOrEqual(t, lower[i], middle[i])
			assert.LessOrEqual(t, middle[i], upper[i])
		}
	})
}

func TestStd(t *testing.T) {
	assert.InDelta(t, math.Sqrt(1.25), Std([]float64{1, 2, 3, 4}), 1e-9)
	assert.Equal(t, 0.0, Std([]float64{3, 3, 3}))
	assert.Equal(t, 0.0, Std(nil))
}

func TestNewFrame(t *testing.T) {
	bars := make([]dto.Bar, 60)
	price := 100.0
	for i := range bars {
		bars[i] = dto.Bar{
			Timestamp: int64(1700000000 + i*86400),
			Open:      price,
			High:      price * 1.01,
			Low:       price * 0.99,
			Close:     price,
			Volume:    1000,
		}
		price *= 1.005
	}

	f := NewFrame(bars, DefaultParams())

	require.Equal(t, 60, f.Len())
	for _, column := range [][]float64{
		f.Closes, f.Highs, f.Lows, f.Volumes,
		f.SMAFast, f.SMASlow, f.RSI, f.MACD, f.MACDSignal,
		f.BBUpper, f.BBMiddle, f.BBLower,
	} {
		assert.Len(t, column, 60)
	}

	// Warm-up boundaries with the default periods.
	assert.True(t, math.IsNaN(f.SMAFast[18]))
	assert.True(t, Defined(f.SMAFast[19]))
	assert.True(t, math.IsNaN(f.SMASlow[48]))
	assert.True(t, Defined(f.SMASlow[49]))
	assert.True(t, math.IsNaN(f.RSI[13]))
	assert.True(t, Defined(f.RSI[14]))
	assert.True(t, Defined(f.MACD[25]))
	assert.True(t, Defined(f.MACDSignal[33]))
	assert.True(t, Defined(f.BBUpper[19]))

	assert.Equal(t, bars[59].Close, f.Closes[59])
	assert.Equal(t, float64(bars[0].Volume), f.Volumes[0])
}
