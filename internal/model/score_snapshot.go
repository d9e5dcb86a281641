package model

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreSnapshot persists one composite scoring run so score history can be
// queried without refetching market data.
type ScoreSnapshot struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Symbol         string         `gorm:"index:idx_score_snapshots_symbol_created_at" json:"symbol"`
	TotalScore     float64        `json:"total_score"`
	Rating         string         `json:"rating"`
	TechnicalScore float64        `json:"technical_score"`
	MomentumScore  float64        `json:"momentum_score"`
	SentimentScore float64        `json:"sentiment_score"`
	Confidence     string         `json:"confidence"`
	MarketPrice    float64        `json:"market_price"`
	BarCount       int            `json:"bar_count"`
	Signals        datatypes.JSON `json:"signals"`
	CreatedAt      time.Time      `gorm:"index:idx_score_snapshots_symbol_created_at" json:"created_at"`
}

func (ScoreSnapshot) TableName() string {
	return "score_snapshots"
}
