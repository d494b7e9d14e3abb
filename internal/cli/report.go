package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/anchorbench/internal/evalrun"
	"github.com/ppiankov/anchorbench/internal/store"
	"github.com/spf13/cobra"
)

var reportRunDir string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a completed evaluation run",
	Long: `Report aggregates the per-domain result files of an evaluation run
into correct/unknown/incorrect counts, accuracy, and average score.

Example:
  anchorbench report --run-dir runs/gpt-4o-mini_20260830T120000Z`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportRunDir, "run-dir", "", "evaluation run directory (required)")
	_ = reportCmd.MarkFlagRequired("run-dir")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st := store.New(cfg.Generation.BenchmarksDir, cfg.Eval.RunsDir)
	return printRunReport(st, reportRunDir)
}

// printRunReport renders the summary table for one run directory.
func printRunReport(st *store.Store, runDir string) error {
	meta, err := st.ReadRunMetadata(runDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	byDomain, warnings, err := st.ReadRunResults(runDir)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if len(byDomain) == 0 {
		return fmt.Errorf("no result files found in %s", runDir)
	}

	summaries, total := evalrun.AggregateByDomain(byDomain)

	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println("  Evaluation Summary")
	if meta.Model != "" {
		fmt.Printf("  Model: %s\n", meta.Model)
		if meta.Scoring.RiskPenaltyApplied {
			fmt.Printf("  Scoring: correct %.2f / unknown %.2f / wrong -%.2f (risk threshold %.2f)\n",
				meta.Scoring.CorrectScore, meta.Scoring.UnknownCredit, meta.Scoring.WrongPenalty, meta.Scoring.RiskThreshold)
		} else {
			fmt.Printf("  Scoring: correct %.2f / unknown %.2f / wrong -%.2f\n",
				meta.Scoring.CorrectScore, meta.Scoring.UnknownCredit, meta.Scoring.WrongPenalty)
		}
	}
	fmt.Println("═══════════════════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Printf("  %-16s %8s %8s %10s %7s %10s %10s\n",
		"Domain", "Correct", "Unknown", "Incorrect", "Total", "Accuracy", "Avg Score")

	for _, domain := range evalrun.Domains(summaries) {
		s := summaries[domain]
		fmt.Printf("  %-16s %8d %8d %10d %7d %9.2f%% %10.4f\n",
			domain, s.Correct, s.Unknown, s.Incorrect, s.Total, s.Accuracy, s.AvgScore)
	}

	fmt.Println()
	fmt.Printf("  %-16s %8d %8d %10d %7d %9.2f%% %10.4f\n",
		"Total", total.Correct, total.Unknown, total.Incorrect, total.Total, total.Accuracy, total.AvgScore)
	fmt.Println()

	return nil
}
