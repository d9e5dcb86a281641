package service

import (
	"equity-advisor/config"
	"equity-advisor/internal/contract"
	"equity-advisor/internal/repository"
	"equity-advisor/pkg/logger"
)

type Service struct {
	ScoringService   ScoringService
	SignalService    SignalService
	AnalysisService  AnalysisService
	BacktestService  BacktestService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	auxScorers ...contract.AuxiliaryScorer,
) (*Service, error) {
	scoringService, err := NewScoringService(log, auxScorers...)
	if err != nil {
		return nil, err
	}

	signalService := NewSignalService(cfg, log, repo.YahooFinanceRepo)
	analysisService := NewAnalysisService(cfg, log, repo.YahooFinanceRepo, repo.ScoreSnapshotRepo, scoringService)
	backtestService := NewBacktestService(cfg, log, repo.YahooFinanceRepo)
	schedulerService := NewSchedulerService(cfg, log, analysisService)

	return &Service{
		ScoringService:   scoringService,
		SignalService:    signalService,
		AnalysisService:  analysisService,
		BacktestService:  backtestService,
		SchedulerService: schedulerService,
	}, nil
}
