package strategy

import (
	"testing"

	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes []float64) []dto.Bar {
	bars := make([]dto.Bar, len(closes))
	for i, c := range closes {
		bars[i] = dto.Bar{
			Timestamp: int64(1700000000 + i*86400),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func decreasingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	return closes
}

func increasingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func flatCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return closes
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		advisor   string
		cfg       Config
		wantErr   bool
		wantName  string
	}{
		{name: "rsi advisor", advisor: AdvisorRSI, cfg: DefaultConfig(), wantName: "rsi"},
		{name: "macd advisor", advisor: AdvisorMACD, cfg: DefaultConfig(), wantName: "macd"},
		{name: "ma cross advisor", advisor: AdvisorMACross, cfg: DefaultConfig(), wantName: "ma_cross"},
		{name: "bollinger advisor", advisor: AdvisorBollinger, cfg: DefaultConfig(), wantName: "bollinger"},
		{name: "ensemble advisor", advisor: AdvisorEnsemble, cfg: DefaultConfig(), wantName: "ensemble"},
		{name: "unknown advisor", advisor: "turtle", cfg: DefaultConfig(), wantErr: true},
		{
			name:    "invalid config rejected",
			advisor: AdvisorRSI,
			cfg: func() Config {
				cfg := DefaultConfig()
				cfg.RSIOversold = 80
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv, err := New(tt.advisor, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, adv.Name())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "zero period", mutate: func(c *Config) { c.Indicators.RSIPeriod = 0 }, wantErr: true},
		{name: "zero band width", mutate: func(c *Config) { c.Indicators.BBWidth = 0 }, wantErr: true},
		{name: "inverted rsi thresholds", mutate: func(c *Config) { c.RSIOversold = 75 }, wantErr: true},
		{name: "risk above 100", mutate: func(c *Config) { c.RiskPerTrade = 150 }, wantErr: true},
		{name: "zero max open trades", mutate: func(c *Config) { c.MaxOpenTrades = 0 }, wantErr: true},
		{name: "negative trailing stop", mutate: func(c *Config) { c.TrailingStopPct = -1 }, wantErr: true},
		{name: "wrong weight count", mutate: func(c *Config) { c.EnsembleWeights = []float64{0.5, 0.5} }, wantErr: true},
		{name: "weights not summing to one", mutate: func(c *Config) { c.EnsembleWeights = []float64{0.4, 0.4, 0.4, 0.4} }, wantErr: true},
		{name: "threshold out of range", mutate: func(c *Config) { c.EnsembleThreshold = 1.5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdvisorsInsufficientData(t *testing.T) {
	cfg := DefaultConfig()
	frame := indicator.NewFrame(barsFromCloses(decreasingCloses(30)), cfg.Indicators)

	for _, name := range []string{AdvisorRSI, AdvisorMACD, AdvisorMACross, AdvisorBollinger, AdvisorEnsemble} {
		t.Run(name, func(t *testing.T) {
			adv, err := New(name, cfg)
			require.NoError(t, err)

			sig := adv.GenerateSignal(frame, frame.Len()-1)
			assert.Equal(t, dto.SignalHold, sig.Type)
			assert.Equal(t, "insufficient data", sig.Reason)
			assert.Zero(t, sig.Confidence)
		})
	}
}

func TestAdvisorsFlatSeriesHold(t *testing.T) {
	cfg := DefaultConfig()
	frame := indicator.NewFrame(barsFromCloses(flatCloses(60)), cfg.Indicators)

	for _, name := range []string{AdvisorRSI, AdvisorMACD, AdvisorMACross, AdvisorBollinger, AdvisorEnsemble} {
		t.Run(name, func(t *testing.T) {
			adv, err := New(name, cfg)
			require.NoError(t, err)

			sig := adv.GenerateSignal(frame, frame.Len()-1)
			assert.Equal(t, dto.SignalHold, sig.Type)
		})
	}
}

func TestRSIAdvisor(t *testing.T) {
	cfg := DefaultConfig()
	adv, err := New(AdvisorRSI, cfg)
	require.NoError(t, err)

	t.Run("strictly falling series is maximally oversold", func(t *testing.T) {
		frame := indicator.NewFrame(barsFromCloses(decreasingCloses(60)), cfg.Indicators)
		idx := frame.Len() - 1

		sig := adv.GenerateSignal(frame, idx)
		assert.Equal(t, dto.SignalBuy, sig.Type)
		assert.InDelta(t, 1.0, sig.Confidence, 1e-9)
		assert.Contains(t, sig.Reason, "RSI oversold")

		price := frame.Closes[idx]
		assert.InDelta(t, price*0.97, sig.StopLoss, 1e-9)
		assert.InDelta(t, price*1.06, sig.TakeProfit, 1e-9)
	})

	t.Run("strictly rising series is maximally overbought", func(t *testing.T) {
		frame := indicator.NewFrame(barsFromCloses(increasingCloses(60)), cfg.Indicators)
		idx := frame.Len() - 1

		sig := adv.GenerateSignal(frame, idx)
		assert.Equal(t, dto.SignalSell, sig.Type)
		assert.InDelta(t, 1.0, sig.Confidence, 1e-9)
		assert.Contains(t, sig.Reason, "RSI overbought")
	})
}

func TestMACrossAdvisor(t *testing.T) {
	cfg := DefaultConfig()
	adv, err := New(AdvisorMACross, cfg)
	require.NoError(t, err)

	t.Run("sustained uptrend keeps a trend-continuation buy", func(t *testing.T) {
		frame := indicator.NewFrame(barsFromCloses(increasingCloses(80)), cfg.Indicators)
		idx := frame.Len() - 1

		// Fast average has been above slow for a long stretch, so this is a
		// continuation rather than a fresh cross.
		sig := adv.GenerateSignal(frame, idx)
		assert.Equal(t, dto.SignalBuy, sig.Type)
		assert.Equal(t, 0.5, sig.Confidence)
	})

	t.Run("downtrend reversal produces golden cross", func(t *testing.T) {
		// Fall long enough for the fast average to sit below the slow one,
		// then rally hard so the fast average crosses back over.
		closes := make([]float64, 0, 120)
		for i := 0; i < 70; i++ {
			closes = append(closes, 200-float64(i))
		}
		for i := 0; i < 50; i++ {
			closes = append(closes, 130+float64(i)*3)
		}
		frame := indicator.NewFrame(barsFromCloses(closes), cfg.Indicators)

		var crossed bool
		for idx := cfg.MinBars(); idx < frame.Len(); idx++ {
			sig := adv.GenerateSignal(frame, idx)
			if sig.Reason == "golden cross detected" {
				crossed = true
				assert.Equal(t, dto.SignalBuy, sig.Type)
				assert.Greater(t, sig.Confidence, 0.0)
				break
			}
		}
		assert.True(t, crossed, "expected a golden cross during the rally")
	})
}

func TestBollingerAdvisor(t *testing.T) {
	cfg := DefaultConfig()
	adv, err := New(AdvisorBollinger, cfg)
	require.NoError(t, err)

	t.Run("sharp drop pierces the lower band", func(t *testing.T) {
		closes := flatCloses(60)
		closes[59] = 80 // 20% below the band average
		frame := indicator.NewFrame(barsFromCloses(closes), cfg.Indicators)
		idx := frame.Len() - 1

		sig := adv.GenerateSignal(frame, idx)
		assert.Equal(t, dto.SignalBuy, sig.Type)
		assert.Greater(t, sig.Confidence, 0.0)
		assert.Equal(t, frame.BBMiddle[idx], sig.TakeProfit)
	})

	t.Run("sharp spike pierces the upper band", func(t *testing.T) {
		closes := flatCloses(60)
		closes[59] = 120
		frame := indicator.NewFrame(barsFromCloses(closes), cfg.Indicators)
		idx := frame.Len() - 1

		sig := adv.GenerateSignal(frame, idx)
		assert.Equal(t, dto.SignalSell, sig.Type)
		assert.Equal(t, frame.BBMiddle[idx], sig.TakeProfit)
	})
}
