package evalrun

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/anchorbench/internal/llm"
	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/store"
)

// LogSink receives progress output during an evaluation run.
type LogSink func(format string, args ...interface{})

// Runner evaluates a model against benchmark files sequentially. One
// item's failure is recorded and the run continues; per-domain results
// are persisted as soon as the domain finishes.
type Runner struct {
	completer llm.Completer
	store     *store.Store
	scoring   model.ScoringConfig
	sink      LogSink
}

// NewRunner creates an evaluation runner.
func NewRunner(completer llm.Completer, st *store.Store, scoring model.ScoringConfig, sink LogSink) *Runner {
	if sink == nil {
		sink = func(string, ...interface{}) {}
	}
	return &Runner{
		completer: completer,
		store:     st,
		scoring:   scoring,
		sink:      sink,
	}
}

// systemPrompt frames the evaluation: the model is told the scoring
// scheme so abstention is a rational choice, not a trick.
func (r *Runner) systemPrompt() string {
	return fmt.Sprintf(
		"You are being evaluated on factual questions. Scoring: a correct answer earns %.2f, "+
			"answering \"Unknown\" earns %.2f, and a wrong answer costs %.2f. "+
			"If you are not confident in your answer, reply \"Unknown\" instead of guessing. "+
			"For Yes/No questions, answer literally with Yes, No, or Unknown.",
		r.scoring.CorrectScore, r.scoring.UnknownCredit, r.scoring.WrongPenalty,
	)
}

// Run evaluates modelID against the given benchmark files and returns the
// run directory. Run metadata is written before the first completion so a
// crashed run still identifies itself.
func (r *Runner) Run(ctx context.Context, modelID string, benchmarkPaths []string) (string, error) {
	startedAt := time.Now()

	runDir, err := r.store.CreateRunDir(modelID, startedAt)
	if err != nil {
		return "", err
	}

	meta := model.RunMetadata{
		Model:      modelID,
		StartedAt:  startedAt.UTC(),
		Benchmarks: benchmarkPaths,
		Scoring:    r.scoring,
	}
	if err := r.store.WriteRunMetadata(runDir, meta); err != nil {
		return "", err
	}

	r.sink("starting evaluation for model %s (run dir %s)", modelID, runDir)

	for _, path := range benchmarkPaths {
		records, err := r.store.ReadBenchmark(path)
		if err != nil {
			r.sink("warning: skipping %s: %v", path, err)
			continue
		}

		domain := store.DomainFromPath(path)
		r.sink("evaluating domain: %s (%d items)", domain, len(records))

		results := r.evaluateDomain(ctx, modelID, domain, records)

		if err := r.store.WriteResults(runDir, domain, results); err != nil {
			return runDir, fmt.Errorf("write results for %s: %w", domain, err)
		}
	}

	return runDir, nil
}

func (r *Runner) evaluateDomain(ctx context.Context, modelID, domain string, records []model.QARecord) []model.EvaluationResult {
	prompt := r.systemPrompt()
	results := make([]model.EvaluationResult, 0, len(records))

	for i, qa := range records {
		result := model.EvaluationResult{
			ID:             qa.ID,
			Domain:         domain,
			Question:       qa.Question,
			ExpectedAnswer: qa.Answer,
		}

		response, err := r.completer.Complete(ctx, modelID, prompt, qa.Question)
		if err != nil {
			result.Error = err.Error()
			result.Classification = model.ClassificationIncorrect
		} else {
			result.LLMResponse = response
			result.Classification = Classify(qa.Answer, response)
		}

		result.IsCorrect = result.Classification == model.ClassificationCorrect
		result.Score = Score(result.Classification, r.scoring)
		results = append(results, result)

		marker := "✗"
		if result.Classification == model.ClassificationCorrect {
			marker = "✓"
		} else if result.Classification == model.ClassificationUnknown {
			marker = "?"
		}
		r.sink("  %s item %d/%d (%s): %s", marker, i+1, len(records), qa.ID, result.Classification)
	}

	return results
}
