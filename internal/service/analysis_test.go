package service

import (
	"context"
	"testing"
	"time"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/model"
	"equity-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshotRepo struct {
	created []*model.ScoreSnapshot
	err     error
}

func (f *fakeSnapshotRepo) Create(ctx context.Context, snapshot *model.ScoreSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, snapshot)
	return nil
}

func (f *fakeSnapshotRepo) GetLatest(ctx context.Context, symbol string) (*model.ScoreSnapshot, error) {
	if len(f.created) == 0 {
		return nil, assert.AnError
	}
	return f.created[len(f.created)-1], nil
}

func (f *fakeSnapshotRepo) GetHistory(ctx context.Context, symbol string, limit int) ([]model.ScoreSnapshot, error) {
	out := make([]model.ScoreSnapshot, 0, len(f.created))
	for _, s := range f.created {
		out = append(out, *s)
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSnapshotRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newAnalysisFixture(t *testing.T, cfg *config.Config, closes []float64) (AnalysisService, *fakeSnapshotRepo) {
	t.Helper()
	scoring, err := NewScoringService(logger.NewNop())
	require.NoError(t, err)

	yahoo := &fakeYahooRepo{data: &dto.StockData{
		Symbol:      "IBE.MC",
		MarketPrice: closes[len(closes)-1],
		Bars:        barsFromCloses(closes),
	}}
	snapshots := &fakeSnapshotRepo{}
	return NewAnalysisService(cfg, logger.NewNop(), yahoo, snapshots, scoring), snapshots
}

func TestAnalyze(t *testing.T) {
	cfg := &config.Config{Advisor: config.AdvisorConfig{Strategy: "ensemble"}}
	svc, snapshots := newAnalysisFixture(t, cfg, uptrendSeries(300))

	result, err := svc.Analyze(context.Background(), "IBE.MC")
	require.NoError(t, err)

	assert.Equal(t, "IBE.MC", result.Symbol)
	assert.Equal(t, 300, result.BarCount)
	require.NotNil(t, result.Score)
	assert.Equal(t, dto.ConfidenceHigh, result.Score.Confidence)

	// Every analysis run leaves a snapshot behind.
	require.Len(t, snapshots.created, 1)
	snap := snapshots.created[0]
	assert.Equal(t, "IBE.MC", snap.Symbol)
	assert.Equal(t, result.Score.TotalScore, snap.TotalScore)
	assert.Equal(t, result.Score.Rating, snap.Rating)
	assert.Equal(t, 300, snap.BarCount)
}

func TestAnalyzeScoreGate(t *testing.T) {
	// A deep oversold downtrend makes the oscillator advisor scream BUY, but
	// the composite score of a falling stock stays below the minimum, so the
	// final signal is downgraded to HOLD.
	cfg := &config.Config{Advisor: config.AdvisorConfig{Strategy: "rsi", MinScore: 6.0}}
	svc, _ := newAnalysisFixture(t, cfg, downtrendSeries(120))

	result, err := svc.Analyze(context.Background(), "IBE.MC")
	require.NoError(t, err)

	require.NotNil(t, result.Score)
	require.Less(t, result.Score.TotalScore, 6.0)
	assert.Equal(t, dto.SignalHold, result.Signal.Type)
	assert.Contains(t, result.Signal.Reason, "Insufficient score")
	assert.Zero(t, result.Signal.Confidence)
}

func TestAnalyzeSnapshotFailureIsNotFatal(t *testing.T) {
	cfg := &config.Config{Advisor: config.AdvisorConfig{Strategy: "ensemble"}}
	scoring, err := NewScoringService(logger.NewNop())
	require.NoError(t, err)

	closes := uptrendSeries(120)
	yahoo := &fakeYahooRepo{data: &dto.StockData{Symbol: "REP.MC", Bars: barsFromCloses(closes)}}
	snapshots := &fakeSnapshotRepo{err: assert.AnError}
	svc := NewAnalysisService(cfg, logger.NewNop(), yahoo, snapshots, scoring)

	result, err := svc.Analyze(context.Background(), "REP.MC")
	require.NoError(t, err)
	assert.NotNil(t, result.Score)
}

func TestAnalyzeAll(t *testing.T) {
	cfg := &config.Config{
		Advisor:   config.AdvisorConfig{Strategy: "ensemble"},
		Scheduler: config.Scheduler{MaxConcurrency: 2},
	}
	svc, snapshots := newAnalysisFixture(t, cfg, uptrendSeries(120))

	results, err := svc.AnalyzeAll(context.Background(), []string{"IBE.MC", "SAN.MC", "ITX.MC"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Len(t, snapshots.created, 3)
}

func TestAnalyzeAllSkipsFailingSymbols(t *testing.T) {
	cfg := &config.Config{
		Advisor:   config.AdvisorConfig{Strategy: "ensemble"},
		Scheduler: config.Scheduler{MaxConcurrency: 2},
	}
	scoring, err := NewScoringService(logger.NewNop())
	require.NoError(t, err)

	yahoo := &fakeYahooRepo{err: assert.AnError}
	svc := NewAnalysisService(cfg, logger.NewNop(), yahoo, &fakeSnapshotRepo{}, scoring)

	results, err := svc.AnalyzeAll(context.Background(), []string{"IBE.MC", "SAN.MC"})
	require.NoError(t, err)
	assert.Empty(t, results)
}
