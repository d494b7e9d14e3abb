package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/anchorbench/internal/evalrun"
	"github.com/ppiankov/anchorbench/internal/llm"
	"github.com/ppiankov/anchorbench/internal/store"
	"github.com/spf13/cobra"
)

var (
	evalModel         string
	evalBenchmarks    string
	evalUnknownCredit float64
	evalWrongPenalty  float64
	evalRiskThreshold float64
	evalRunsDir       string
	evalBaseURL       string
	evalMaxTokens     int
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a model against benchmark files",
	Long: `Evaluate issues one completion per benchmark record, classifies each
response as correct, unknown, or incorrect, and scores it under an
abstention-aware scheme. Results are persisted per domain under a run
directory and summarized on completion.

Scoring: correct earns 1.0, "Unknown" earns --unknown-credit, and a
wrong answer costs --wrong-penalty. Passing --risk-threshold t derives
the penalty as t/(1-t) instead, so guessing only pays off above
confidence t.

Requires OPENAI_API_KEY; set OPENAI_API_BASE to target a compatible
endpoint (OpenRouter, local server).

Example:
  anchorbench evaluate --model gpt-4o-mini
  anchorbench evaluate --model gpt-4o-mini --risk-threshold 0.8
  anchorbench evaluate --model gpt-4o-mini --benchmarks benchmarks/github_benchmark.json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evalModel, "model", "", "model identifier to evaluate (required)")
	evaluateCmd.Flags().StringVar(&evalBenchmarks, "benchmarks", "", "comma-separated benchmark files (default: all in the benchmarks dir)")
	evaluateCmd.Flags().Float64Var(&evalUnknownCredit, "unknown-credit", 0.0, "score credited for an abstaining answer")
	evaluateCmd.Flags().Float64Var(&evalWrongPenalty, "wrong-penalty", 0.0, "score subtracted for a wrong answer")
	evaluateCmd.Flags().Float64Var(&evalRiskThreshold, "risk-threshold", 0, "derive wrong-penalty as t/(1-t) from this confidence threshold")
	evaluateCmd.Flags().StringVar(&evalRunsDir, "runs-dir", "", "run output directory (default: runs)")
	evaluateCmd.Flags().StringVar(&evalBaseURL, "base-url", "", "completions endpoint base URL (default: OpenAI)")
	evaluateCmd.Flags().IntVar(&evalMaxTokens, "max-tokens", 0, "max completion tokens per item (default: 150)")

	_ = evaluateCmd.MarkFlagRequired("model")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if evalRunsDir != "" {
		cfg.Eval.RunsDir = evalRunsDir
	}
	if evalBaseURL != "" {
		cfg.Eval.BaseURL = evalBaseURL
	}
	if evalMaxTokens > 0 {
		cfg.Eval.MaxTokens = evalMaxTokens
	}

	scoring := cfg.Eval.Scoring
	scoring.UnknownCredit = evalUnknownCredit
	scoring.WrongPenalty = evalWrongPenalty
	if cmd.Flags().Changed("risk-threshold") {
		penalty, err := evalrun.PenaltyFromRiskThreshold(evalRiskThreshold)
		if err != nil {
			return err
		}
		scoring.WrongPenalty = penalty
		scoring.RiskThreshold = evalRiskThreshold
		scoring.RiskPenaltyApplied = true
	}

	client, err := llm.NewClient(cfg.Eval.APIKey, cfg.Eval.BaseURL, cfg.Eval.MaxTokens)
	if err != nil {
		return fmt.Errorf("OPENAI_API_KEY not set: %w", err)
	}

	paths, err := benchmarkPaths(cfg.Generation.BenchmarksDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no benchmark files found (run 'anchorbench generate' first)")
	}

	st := store.New(cfg.Generation.BenchmarksDir, cfg.Eval.RunsDir)
	runner := evalrun.NewRunner(client, st, scoring, logSink)

	runDir, err := runner.Run(context.Background(), evalModel, paths)
	if err != nil {
		return err
	}

	return printRunReport(st, runDir)
}

// benchmarkPaths resolves the benchmark file list: an explicit
// comma-separated flag value, or every benchmark file in the directory.
func benchmarkPaths(benchmarksDir string) ([]string, error) {
	if evalBenchmarks != "" {
		var paths []string
		for _, p := range strings.Split(evalBenchmarks, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		return paths, nil
	}

	paths, err := filepath.Glob(filepath.Join(benchmarksDir, "*_benchmark.json"))
	if err != nil {
		return nil, fmt.Errorf("list benchmark files: %w", err)
	}
	return paths, nil
}
