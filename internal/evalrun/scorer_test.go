package evalrun

import (
	"math"
	"testing"

	"github.com/ppiankov/anchorbench/internal/model"
)

func TestScore_Lookup(t *testing.T) {
	scoring := model.ScoringConfig{CorrectScore: 1.0, UnknownCredit: 0.25, WrongPenalty: 2.0}

	if got := Score(model.ClassificationCorrect, scoring); got != 1.0 {
		t.Errorf("correct score = %v, want 1.0", got)
	}
	if got := Score(model.ClassificationUnknown, scoring); got != 0.25 {
		t.Errorf("unknown score = %v, want 0.25", got)
	}
	if got := Score(model.ClassificationIncorrect, scoring); got != -2.0 {
		t.Errorf("incorrect score = %v, want -2.0", got)
	}
}

func TestPenaltyFromRiskThreshold(t *testing.T) {
	tests := []struct {
		t    float64
		want float64
	}{
		{0.0, 0.0},
		{0.5, 1.0},
		{0.8, 4.0},
	}
	for _, tt := range tests {
		got, err := PenaltyFromRiskThreshold(tt.t)
		if err != nil {
			t.Fatalf("t=%v: %v", tt.t, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PenaltyFromRiskThreshold(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestPenaltyFromRiskThreshold_Invalid(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.0, 1.5} {
		if _, err := PenaltyFromRiskThreshold(bad); err == nil {
			t.Errorf("expected error for t=%v", bad)
		}
	}
}
