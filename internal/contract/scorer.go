package contract

import (
	"context"

	"equity-advisor/internal/dto"
	"equity-advisor/internal/indicator"
)

// AuxiliaryScore is the normalized output of a pluggable scorer: a 0-10
// score, a directional label and a history-driven confidence level.
type AuxiliaryScore struct {
	Score      float64
	Label      dto.SignalType
	Confidence string
}

// AuxiliaryScorer contributes an extra weighted component to the composite
// score. Implementations may call external services; a returned error means
// the component is skipped with a neutral contribution, never that the whole
// analysis fails.
type AuxiliaryScorer interface {
	Name() string
	Weight() float64
	Score(ctx context.Context, f *indicator.Frame) (AuxiliaryScore, error)
}
