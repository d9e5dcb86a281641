package repository

import (
	"context"
	"time"

	"equity-advisor/internal/model"

	"gorm.io/gorm"
)

type ScoreSnapshotRepository interface {
	Create(ctx context.Context, snapshot *model.ScoreSnapshot) error
	GetLatest(ctx context.Context, symbol string) (*model.ScoreSnapshot, error)
	GetHistory(ctx context.Context, symbol string, limit int) ([]model.ScoreSnapshot, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type scoreSnapshotRepository struct {
	db *gorm.DB
}

func NewScoreSnapshotRepository(db *gorm.DB) ScoreSnapshotRepository {
	return &scoreSnapshotRepository{db: db}
}

func (r *scoreSnapshotRepository) Create(ctx context.Context, snapshot *model.ScoreSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *scoreSnapshotRepository) GetLatest(ctx context.Context, symbol string) (*model.ScoreSnapshot, error) {
	var snapshot model.ScoreSnapshot
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *scoreSnapshotRepository) GetHistory(ctx context.Context, symbol string, limit int) ([]model.ScoreSnapshot, error) {
	var snapshots []model.ScoreSnapshot
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *scoreSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.ScoreSnapshot{})
	return result.RowsAffected, result.Error
}
