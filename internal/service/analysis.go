package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"equity-advisor/internal/model"
	"equity-advisor/internal/repository"
	"equity-advisor/internal/strategy"
	"equity-advisor/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type AnalysisService interface {
	Analyze(ctx context.Context, symbol string) (*dto.StockAnalysisResult, error)
	AnalyzeAll(ctx context.Context, symbols []string) ([]dto.StockAnalysisResult, error)
	GetLatestScore(ctx context.Context, symbol string) (*model.ScoreSnapshot, error)
	GetScoreHistory(ctx context.Context, symbol string, limit int) ([]model.ScoreSnapshot, error)
}

type analysisService struct {
	cfg          *config.Config
	log          *logger.Logger
	yahooRepo    repository.YahooFinanceRepository
	snapshotRepo repository.ScoreSnapshotRepository
	scoring      ScoringService
}

func NewAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	yahooRepo repository.YahooFinanceRepository,
	snapshotRepo repository.ScoreSnapshotRepository,
	scoring ScoringService,
) AnalysisService {
	return &analysisService{
		cfg:          cfg,
		log:          log,
		yahooRepo:    yahooRepo,
		snapshotRepo: snapshotRepo,
		scoring:      scoring,
	}
}

// Analyze fetches a year of daily bars, scores the instrument and asks the
// configured advisor for a signal. Signals that do not clear the minimum
// composite score are downgraded to HOLD.
func (s *analysisService) Analyze(ctx context.Context, symbol string) (*dto.StockAnalysisResult, error) {
	data, err := s.yahooRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:   symbol,
		Range:    "1y",
		Interval: "1d",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market data: %w", err)
	}

	bars := data.Bars
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })

	advCfg := strategy.DefaultConfig()
	if s.cfg.Advisor.MinScore > 0 {
		advCfg.MinScore = s.cfg.Advisor.MinScore
	}
	advisorName := s.cfg.Advisor.Strategy
	if advisorName == "" {
		advisorName = strategy.AdvisorEnsemble
	}
	adv, err := strategy.New(advisorName, advCfg)
	if err != nil {
		return nil, err
	}

	frame := indicator.NewFrame(bars, advCfg.Indicators)
	score := s.scoring.Score(ctx, frame)
	signal := adv.GenerateSignal(frame, frame.Len()-1)

	if signal.Type != dto.SignalHold && score.TotalScore < advCfg.MinScore {
		signal = dto.TradeSignal{
			Type:       dto.SignalHold,
			Confidence: 0,
			Reason:     fmt.Sprintf("Insufficient score (%.1f < %.1f)", score.TotalScore, advCfg.MinScore),
			Price:      signal.Price,
		}
	}

	result := &dto.StockAnalysisResult{
		Symbol:      symbol,
		MarketPrice: data.MarketPrice,
		BarCount:    len(bars),
		Score:       score,
		Signal:      signal,
	}

	s.persistSnapshot(ctx, result)
	return result, nil
}

// AnalyzeAll runs Analyze over a watchlist with bounded concurrency. A
// failing symbol is logged and skipped so the rest of the list still runs.
func (s *analysisService) AnalyzeAll(ctx context.Context, symbols []string) ([]dto.StockAnalysisResult, error) {
	results := make([]*dto.StockAnalysisResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	maxConcurrency := s.cfg.Scheduler.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	g.SetLimit(maxConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			result, err := s.Analyze(gctx, symbol)
			if err != nil {
				s.log.ErrorContext(gctx, "analysis failed for symbol",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
				return nil
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]dto.StockAnalysisResult, 0, len(symbols))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *analysisService) GetLatestScore(ctx context.Context, symbol string) (*model.ScoreSnapshot, error) {
	return s.snapshotRepo.GetLatest(ctx, symbol)
}

func (s *analysisService) GetScoreHistory(ctx context.Context, symbol string, limit int) ([]model.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.snapshotRepo.GetHistory(ctx, symbol, limit)
}

// persistSnapshot stores the scoring run for history queries. Persistence is
// best-effort: a storage failure must not fail the analysis itself.
func (s *analysisService) persistSnapshot(ctx context.Context, result *dto.StockAnalysisResult) {
	signals, err := json.Marshal(result.Score.Signals)
	if err != nil {
		s.log.WarnContext(ctx, "failed to marshal score signals", logger.ErrorField(err))
		signals = []byte("[]")
	}

	snapshot := &model.ScoreSnapshot{
		Symbol:         result.Symbol,
		TotalScore:     result.Score.TotalScore,
		Rating:         result.Score.Rating,
		TechnicalScore: result.Score.TechnicalScore,
		MomentumScore:  result.Score.MomentumScore,
		SentimentScore: result.Score.SentimentScore,
		Confidence:     result.Score.Confidence,
		MarketPrice:    result.MarketPrice,
		BarCount:       result.BarCount,
		Signals:        datatypes.JSON(signals),
	}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		s.log.WarnContext(ctx, "failed to persist score snapshot",
			logger.StringField("symbol", result.Symbol),
			logger.ErrorField(err))
	}
}
