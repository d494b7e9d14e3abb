package model

import "time"

// Config is the complete anchorbench configuration. It is constructed once
// at process entry (flags > env > config file > defaults) and passed by
// reference into the orchestrators; no component reads ambient process
// state directly.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Search     SearchConfig     `yaml:"search"`
	Generation GenerationConfig `yaml:"generation"`
	Eval       EvalConfig       `yaml:"eval"`
	Output     OutputConfig     `yaml:"output"`
}

// HTTPConfig controls outbound requests to source collaborators.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig controls the layered response/word-list cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// SearchConfig configures the uniqueness oracle. An empty APIKey is a
// valid degraded mode: verification is skipped, not failed.
type SearchConfig struct {
	APIKey     string `yaml:"-"`
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
}

// GenerationConfig bounds the generation pass per domain.
type GenerationConfig struct {
	BenchmarksDir     string        `yaml:"benchmarks_dir"`
	EntityProbeLimit  int           `yaml:"entity_probe_limit"`
	ProbeDelay        time.Duration `yaml:"probe_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	FakeoutAttempts   int           `yaml:"fakeout_attempts"`
	GitHubToken       string        `yaml:"-"`
}

// EvalConfig configures the completion endpoint and run persistence.
type EvalConfig struct {
	APIKey    string        `yaml:"-"`
	BaseURL   string        `yaml:"base_url"`
	RunsDir   string        `yaml:"runs_dir"`
	MaxTokens int           `yaml:"max_tokens"`
	Scoring   ScoringConfig `yaml:"scoring"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Anchorbench/0.1 (+https://github.com/ppiankov/anchorbench)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".anchorbench-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Search: SearchConfig{
			BaseURL:    "https://api.search.brave.com/res/v1/web/search",
			MaxResults: 5,
		},
		Generation: GenerationConfig{
			BenchmarksDir:     "benchmarks",
			EntityProbeLimit:  100,
			ProbeDelay:        1500 * time.Millisecond,
			RequestsPerSecond: 1.0,
			BurstSize:         2,
			FakeoutAttempts:   50,
		},
		Eval: EvalConfig{
			BaseURL:   "https://api.openai.com/v1",
			RunsDir:   "runs",
			MaxTokens: 150,
			Scoring: ScoringConfig{
				CorrectScore:  1.0,
				UnknownCredit: 0.0,
				WrongPenalty:  0.0,
			},
		},
		Output: OutputConfig{},
	}
}
