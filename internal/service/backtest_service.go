package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"equity-advisor/config"
	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
	"equity-advisor/internal/repository"
	"equity-advisor/internal/strategy"
	"equity-advisor/pkg/logger"
)

type BacktestService interface {
	RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error)
}

type backtestService struct {
	cfg       *config.Config
	log       *logger.Logger
	yahooRepo repository.YahooFinanceRepository
}

func NewBacktestService(cfg *config.Config, log *logger.Logger, yahooRepo repository.YahooFinanceRepository) BacktestService {
	return &backtestService{cfg: cfg, log: log, yahooRepo: yahooRepo}
}

func (s *backtestService) RunBacktest(ctx context.Context, req dto.BacktestRequest) (*dto.BacktestResult, error) {
	strategyName := req.Strategy
	if strategyName == "" {
		strategyName = s.cfg.Advisor.Strategy
	}
	rng := req.Range
	if rng == "" {
		rng = "1y"
	}
	interval := req.Interval
	if interval == "" {
		interval = "1d"
	}
	capital := req.InitialCapital
	if capital == 0 {
		capital = s.cfg.Advisor.InitialCapital
	}

	advCfg := strategy.DefaultConfig()
	adv, err := strategy.New(strategyName, advCfg)
	if err != nil {
		return nil, err
	}

	data, err := s.yahooRepo.Get(ctx, dto.GetStockDataParam{
		Symbol:   req.Symbol,
		Range:    rng,
		Interval: interval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for backtest: %w", err)
	}

	bars := data.Bars
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })

	result := simulate(adv, advCfg, bars, capital)
	result.Symbol = req.Symbol
	result.Strategy = adv.Name()

	s.log.InfoContext(ctx, "backtest completed",
		logger.StringField("symbol", req.Symbol),
		logger.StringField("strategy", adv.Name()),
		logger.IntField("total_trades", result.TotalTrades),
		logger.Float64Field("total_return_pct", result.TotalReturnPct))

	return result, nil
}

// simulate replays the strategy over the bar sequence. Positions are managed
// against each bar's close before a fresh signal is taken, entries are
// long-only and sized by the risk fraction of remaining capital, and anything
// still open at the end is force-closed at the last price.
func simulate(adv strategy.Advisor, cfg strategy.Config, bars []dto.Bar, initialCapital float64) *dto.BacktestResult {
	frame := indicator.NewFrame(bars, cfg.Indicators)
	capital := initialCapital

	var open, closed []*dto.Trade
	var curve []dto.EquityPoint

	for i := cfg.MinBars(); i < len(bars); i++ {
		price := frame.Closes[i]
		ts := bars[i].Timestamp

		var nowClosed []*dto.Trade
		open, nowClosed = strategy.ManageOpenTrades(cfg, open, price, ts)
		closed = append(closed, nowClosed...)

		sig := adv.GenerateSignal(frame, i)
		if sig.Type == dto.SignalBuy && len(open) < cfg.MaxOpenTrades && capital > 0 {
			size := capital * cfg.RiskPerTrade / 100 / price
			open = append(open, &dto.Trade{
				EntryDate:  ts,
				EntryPrice: price,
				Direction:  dto.SignalBuy,
				Size:       size,
				StopLoss:   sig.StopLoss,
				TakeProfit: sig.TakeProfit,
				Reason:     sig.Reason,
			})
			capital -= price * size
		}

		var openPL, closedPL float64
		for _, t := range open {
			openPL += (price - t.EntryPrice) * t.Size
		}
		for _, t := range closed {
			closedPL += t.ProfitLoss
		}
		curve = append(curve, dto.EquityPoint{
			Timestamp:    ts,
			Equity:       capital + openPL + closedPL,
			Capital:      capital,
			OpenTrades:   len(open),
			ClosedTrades: len(closed),
		})
	}

	if len(bars) > 0 {
		finalPrice := frame.Closes[len(bars)-1]
		finalTS := bars[len(bars)-1].Timestamp
		for _, t := range open {
			strategy.CloseTrade(t, finalPrice, finalTS, "End of backtest")
			closed = append(closed, t)
		}
	}

	return computeMetrics(initialCapital, curve, closed)
}

func computeMetrics(initialCapital float64, curve []dto.EquityPoint, closed []*dto.Trade) *dto.BacktestResult {
	result := &dto.BacktestResult{
		InitialCapital: initialCapital,
		EquityCurve:    curve,
		Trades:         make([]dto.Trade, 0, len(closed)),
	}
	for _, t := range closed {
		result.Trades = append(result.Trades, *t)
	}

	// Zero closed trades is a valid outcome, not an error.
	if len(closed) == 0 {
		return result
	}

	var totalProfit, totalLoss float64
	for _, t := range closed {
		if t.ProfitLoss > 0 {
			result.WinningTrades++
			totalProfit += t.ProfitLoss
		} else {
			result.LosingTrades++
			totalLoss += math.Abs(t.ProfitLoss)
		}
	}
	result.TotalTrades = len(closed)
	result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades) * 100

	finalEquity := initialCapital
	if len(curve) > 0 {
		finalEquity = curve[len(curve)-1].Equity
	}
	result.TotalReturn = finalEquity - initialCapital
	result.TotalReturnPct = result.TotalReturn / initialCapital * 100

	result.MaxDrawdown = maxDrawdown(curve)
	result.SharpeRatio = sharpeRatio(curve)

	if result.WinningTrades > 0 {
		result.AvgWin = totalProfit / float64(result.WinningTrades)
	}
	if result.LosingTrades > 0 {
		result.AvgLoss = totalLoss / float64(result.LosingTrades)
	}
	if totalLoss > 0 {
		result.ProfitFactor = totalProfit / totalLoss
	}

	return result
}

// maxDrawdown is the worst peak-to-trough decline over the equity curve, in
// percent.
func maxDrawdown(curve []dto.EquityPoint) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0].Equity
	var maxDD float64
	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak > 0 {
			if dd := (peak - point.Equity) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio annualizes the mean/stddev of per-step equity returns assuming
// daily bars. Zero variance yields zero, not a division error.
func sharpeRatio(curve []dto.EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1].Equity != 0 {
			returns = append(returns, curve[i].Equity/curve[i-1].Equity-1)
		}
	}
	if len(returns) == 0 {
		return 0
	}
	std := indicator.Std(returns)
	if std == 0 {
		return 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	return mean / std * math.Sqrt(252)
}
