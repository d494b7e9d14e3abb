package evalrun

import (
	"fmt"

	"github.com/ppiankov/anchorbench/internal/model"
)

// Score maps a verdict to its scalar reward. Pure lookup; a wrong answer
// subtracts the penalty rather than earning zero.
func Score(c model.Classification, scoring model.ScoringConfig) float64 {
	switch c {
	case model.ClassificationCorrect:
		return scoring.CorrectScore
	case model.ClassificationUnknown:
		return scoring.UnknownCredit
	default:
		return -scoring.WrongPenalty
	}
}

// PenaltyFromRiskThreshold derives the wrong-answer penalty from a target
// confidence threshold t: a rational abstainer should answer only when
// its confidence exceeds t, which makes the break-even penalty t/(1-t).
func PenaltyFromRiskThreshold(t float64) (float64, error) {
	if t < 0 || t >= 1 {
		return 0, fmt.Errorf("risk threshold must be in [0,1), got %g", t)
	}
	return t / (1 - t), nil
}
