package model

import "time"

// Classification is the tri-state verdict for a model response.
type Classification string

const (
	ClassificationCorrect   Classification = "correct"
	ClassificationUnknown   Classification = "unknown"
	ClassificationIncorrect Classification = "incorrect"
)

// EvaluationResult is produced exactly once per QARecord per evaluation run.
type EvaluationResult struct {
	ID             string         `json:"id"`
	Domain         string         `json:"domain"`
	Question       string         `json:"question"`
	ExpectedAnswer string         `json:"expected_answer"`
	LLMResponse    string         `json:"llm_response"`
	Classification Classification `json:"classification,omitempty"`
	IsCorrect      bool           `json:"is_correct"`
	Score          float64        `json:"score"`
	Error          string         `json:"error,omitempty"`
}

// ScoringConfig is the abstention-aware scoring scheme for one run.
// CorrectScore is fixed at 1.0; UnknownCredit rewards abstention and
// WrongPenalty is subtracted for incorrect answers. When RiskPenaltyApplied
// is set, WrongPenalty was derived from RiskThreshold as t/(1-t).
type ScoringConfig struct {
	CorrectScore       float64 `json:"correct_score"`
	UnknownCredit      float64 `json:"unknown_credit"`
	WrongPenalty       float64 `json:"wrong_penalty"`
	RiskThreshold      float64 `json:"risk_threshold"`
	RiskPenaltyApplied bool    `json:"risk_penalty_applied"`
}

// RunMetadata is the process-wide configuration for one evaluation
// invocation. Written once at run start, never mutated.
type RunMetadata struct {
	Model      string        `json:"model"`
	StartedAt  time.Time     `json:"started_at"`
	Benchmarks []string      `json:"benchmarks"`
	Scoring    ScoringConfig `json:"scoring"`
}
