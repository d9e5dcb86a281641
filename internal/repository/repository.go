package repository

import (
	"equity-advisor/config"
	"equity-advisor/pkg/cache"
	"equity-advisor/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	YahooFinanceRepo  YahooFinanceRepository
	ScoreSnapshotRepo ScoreSnapshotRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger, c cache.Cache) *Repository {
	return &Repository{
		YahooFinanceRepo:  NewYahooFinanceRepository(cfg, log, c),
		ScoreSnapshotRepo: NewScoreSnapshotRepository(db),
	}
}
