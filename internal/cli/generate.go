package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/anchorbench/internal/cache"
	"github.com/ppiankov/anchorbench/internal/extract"
	"github.com/ppiankov/anchorbench/internal/generate"
	"github.com/ppiankov/anchorbench/internal/generate/sources"
	"github.com/ppiankov/anchorbench/internal/store"
	"github.com/ppiankov/anchorbench/internal/util"
	"github.com/ppiankov/anchorbench/internal/verify"
	"github.com/ppiankov/anchorbench/internal/worker"
	"github.com/spf13/cobra"
)

var (
	genDomains       []string
	genCount         int
	genForce         bool
	genBenchmarksDir string
	genNoCache       bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate benchmark files from live web sources",
	Long: `Generate probes the configured source domains, extracts candidate
facts, verifies uniqueness against a search oracle, and writes one
benchmark file per domain.

Set BRAVE_API_KEY to enable uniqueness verification; without it,
verification is skipped and items are accepted optimistically.
Set GITHUB_API_TOKEN to raise the GitHub API rate limit.

Example:
  anchorbench generate --count 10
  anchorbench generate --domains github,pypi --count 5 --force`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringSliceVar(&genDomains, "domains", nil, "domains to generate (default: all registered)")
	generateCmd.Flags().IntVar(&genCount, "count", 10, "target number of records per domain")
	generateCmd.Flags().BoolVar(&genForce, "force", false, "regenerate even when a benchmark file exists")
	generateCmd.Flags().StringVar(&genBenchmarksDir, "benchmarks-dir", "", "benchmark output directory (default: benchmarks)")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "disable the response cache (force fresh fetches)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if genBenchmarksDir != "" {
		cfg.Generation.BenchmarksDir = genBenchmarksDir
	}
	cfg.Cache.Enabled = !genNoCache

	if cfg.Search.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: BRAVE_API_KEY not set, uniqueness verification will be skipped")
	}

	var cacheStore cache.Cache
	if cfg.Cache.Enabled {
		cacheStore = cache.NewLayered(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	throttle := worker.NewThrottle(cfg.Generation.RequestsPerSecond, cfg.Generation.BurstSize)
	robots := util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)

	deps := sources.Deps{
		APIClient: sources.NewClient(cfg.HTTP, throttle, nil, cacheStore),
		WebClient: sources.NewClient(cfg.HTTP, throttle, robots, cacheStore),
		Words:     extract.NewWordListLoader(cfg.HTTP.Timeout, cacheStore, ""),
	}

	registry := generate.NewRegistry()
	if err := sources.RegisterAll(registry, deps, cfg.Generation); err != nil {
		return fmt.Errorf("register generators: %w", err)
	}

	var searchClient verify.SearchClient
	if cfg.Search.APIKey != "" {
		searchClient = verify.NewBraveClient(cfg.Search.APIKey, cfg.Search.BaseURL, cfg.HTTP.Timeout)
	}
	verifier := verify.NewVerifier(searchClient, cfg.Search.MaxResults)

	st := store.New(cfg.Generation.BenchmarksDir, cfg.Eval.RunsDir)
	orchestrator := generate.NewOrchestrator(registry, verifier, st, logSink)

	orchestrator.Run(context.Background(), genDomains, genCount, genForce)
	return nil
}
