package service

import (
	"context"

	"equity-advisor/config"
	"equity-advisor/pkg/logger"

	"github.com/robfig/cron/v3"
)

type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
}

// schedulerService refreshes watchlist scores on a cron schedule so the score
// history keeps filling without anyone hitting the API.
type schedulerService struct {
	cfg      *config.Config
	log      *logger.Logger
	analysis AnalysisService
	cron     *cron.Cron
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, analysis AnalysisService) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		log:      log,
		analysis: analysis,
		cron:     cron.New(),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enabled {
		s.log.Info("scheduler disabled, skipping")
		return nil
	}
	if len(s.cfg.Scheduler.Watchlist) == 0 {
		s.log.Warn("scheduler enabled with empty watchlist, nothing to do")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Scheduler.CronSpec, func() {
		s.refreshWatchlist(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started",
		logger.StringField("cron_spec", s.cfg.Scheduler.CronSpec),
		logger.IntField("watchlist_size", len(s.cfg.Scheduler.Watchlist)))
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("scheduler stopped")
}

func (s *schedulerService) refreshWatchlist(ctx context.Context) {
	results, err := s.analysis.AnalyzeAll(ctx, s.cfg.Scheduler.Watchlist)
	if err != nil {
		s.log.ErrorContext(ctx, "scheduled watchlist analysis failed", logger.ErrorField(err))
		return
	}
	s.log.InfoContext(ctx, "scheduled watchlist analysis completed",
		logger.IntField("analyzed", len(results)),
		logger.IntField("watchlist_size", len(s.cfg.Scheduler.Watchlist)))
}
