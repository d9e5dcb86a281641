package service

import (
	"context"
	"testing"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"equity-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeYahooRepo struct {
	data *dto.StockData
	err  error
}

func (f *fakeYahooRepo) Get(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func downtrendSeries(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	return closes
}

func TestComputeSignals(t *testing.T) {
	closes := downtrendSeries(80)
	repo := &fakeYahooRepo{data: &dto.StockData{
		Symbol:      "SAN.MC",
		MarketPrice: closes[len(closes)-1],
		Bars:        barsFromCloses(closes),
	}}
	svc := NewSignalService(&config.Config{}, logger.NewNop(), repo)

	rows, err := svc.ComputeSignals(context.Background(), dto.GetStockDataParam{Symbol: "SAN.MC"}, 30, "desc")
	require.NoError(t, err)
	require.Len(t, rows, 30)

	// Descending order: the first row is the newest bar.
	newest := rows[0]
	assert.Greater(t, newest.Timestamp, rows[1].Timestamp)

	// A steady decline: fast average below slow, oscillator pinned at the
	// floor, momentum negative, price still inside the bands.
	assert.Equal(t, dto.SignalSell, newest.Recommendation)
	assert.Equal(t, 0.5, newest.Confidence)
	assert.Equal(t, map[string]int{"BUY": 1, "SELL": 2, "HOLD": 1}, newest.Votes)
	assert.Contains(t, newest.Reason, "SMA20 < SMA50")
	assert.Contains(t, newest.Reason, "RSI oversold")
	assert.Contains(t, newest.Reason, "MACD bearish cross")
	assert.Contains(t, newest.Reason, "Price within BB bands")

	require.NotNil(t, newest.SMA20)
	require.NotNil(t, newest.SMA50)
	assert.Less(t, *newest.SMA20, *newest.SMA50)
	assert.Equal(t, 0.0, newest.RSI)

	// pct change of a -1 step from 122: -1/122*100 rounded to 4 places.
	assert.InDelta(t, -0.8197, newest.PctChange, 1e-4)
}

func TestComputeSignalsWarmupRows(t *testing.T) {
	closes := downtrendSeries(80)
	repo := &fakeYahooRepo{data: &dto.StockData{Symbol: "SAN.MC", Bars: barsFromCloses(closes)}}
	svc := NewSignalService(&config.Config{}, logger.NewNop(), repo)

	rows, err := svc.ComputeSignals(context.Background(), dto.GetStockDataParam{Symbol: "SAN.MC"}, 0, "asc")
	require.NoError(t, err)
	require.Len(t, rows, 80)

	first := rows[0]
	assert.Nil(t, first.SMA20)
	assert.Nil(t, first.SMA50)
	assert.Nil(t, first.MACD)
	assert.Nil(t, first.BBUpper)
	assert.Equal(t, 50.0, first.RSI) // neutral fill inside the warm-up window
	assert.Equal(t, 0.0, first.PctChange)
	assert.Equal(t, dto.SignalHold, first.Recommendation)
	assert.Equal(t, 1.0, first.Confidence)
	assert.Contains(t, first.Reason, "SMA: insufficient data")
	assert.Contains(t, first.Reason, "MACD: insufficient data")
	assert.Contains(t, first.Reason, "BB: insufficient data")
}

func TestComputeSignalsFlatSeries(t *testing.T) {
	repo := &fakeYahooRepo{data: &dto.StockData{Symbol: "FLAT", Bars: barsFromCloses(flatSeries(60))}}
	svc := NewSignalService(&config.Config{}, logger.NewNop(), repo)

	rows, err := svc.ComputeSignals(context.Background(), dto.GetStockDataParam{Symbol: "FLAT"}, 1, "desc")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, dto.SignalHold, row.Recommendation)
	assert.Equal(t, 1.0, row.Confidence)
	assert.Equal(t, 4, row.Votes["HOLD"])
	assert.Contains(t, row.Reason, "SMA neutral")
	assert.Contains(t, row.Reason, "MACD neutral")
}

func TestVoteRowTieBreaksTowardBuy(t *testing.T) {
	// Two BUY votes (moving averages, band touch) against two SELL votes
	// (oscillator, momentum) must resolve to BUY.
	frame := &indicator.Frame{
		Bars:       barsFromCloses([]float64{95}),
		Closes:     []float64{95},
		SMAFast:    []float64{105},
		SMASlow:    []float64{100},
		MACD:       []float64{-1},
		MACDSignal: []float64{0},
		BBUpper:    []float64{100},
		BBLower:    []float64{98},
	}
	rec, conf, _, votes := voteRow(frame, []float64{75}, 0)

	assert.Equal(t, dto.SignalBuy, rec)
	assert.Equal(t, 0.5, conf)
	assert.Equal(t, map[string]int{"BUY": 2, "SELL": 2, "HOLD": 0}, votes)
}
