package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/model"
)

const (
	benchmarkSuffix = "_benchmark.json"
	resultsSuffix   = "_results.json"
	metadataFile    = "meta.json"
)

// Store persists benchmark files and evaluation run results. Benchmark
// files are append-free: a generation run either writes a fresh file or
// is skipped entirely. All writes are atomic whole-file replaces.
type Store struct {
	benchmarksDir string
	runsDir       string
}

// New creates a store rooted at the given directories.
func New(benchmarksDir, runsDir string) *Store {
	return &Store{benchmarksDir: benchmarksDir, runsDir: runsDir}
}

// BenchmarkPath returns the benchmark file path for a domain.
func (s *Store) BenchmarkPath(domain string) string {
	return filepath.Join(s.benchmarksDir, domain+benchmarkSuffix)
}

// BenchmarkExists reports whether a benchmark file already exists for the
// domain. The check is advisory; concurrent invocations are out of scope.
func (s *Store) BenchmarkExists(domain string) bool {
	_, err := os.Stat(s.BenchmarkPath(domain))
	return err == nil
}

// WriteBenchmark writes the domain's benchmark file.
func (s *Store) WriteBenchmark(domain string, records []model.QARecord) error {
	if err := os.MkdirAll(s.benchmarksDir, 0755); err != nil {
		return fmt.Errorf("create benchmarks dir: %w", err)
	}
	return writeJSONAtomic(s.BenchmarkPath(domain), records)
}

// ReadBenchmark loads a benchmark file.
func (s *Store) ReadBenchmark(path string) ([]model.QARecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark: %w", err)
	}

	var records []model.QARecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse benchmark %s: %w", path, err)
	}
	return records, nil
}

// DomainFromPath derives the domain name from a benchmark file path.
func DomainFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), benchmarkSuffix)
}

// CreateRunDir creates a run-scoped directory keyed by sanitized model
// identifier and start timestamp.
func (s *Store) CreateRunDir(modelID string, startedAt time.Time) (string, error) {
	name := SanitizeModelID(modelID) + "_" + startedAt.UTC().Format("20060102T150405Z")
	dir := filepath.Join(s.runsDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// WriteRunMetadata writes the run's meta.json. Called once at run start.
func (s *Store) WriteRunMetadata(runDir string, meta model.RunMetadata) error {
	return writeJSONAtomic(filepath.Join(runDir, metadataFile), meta)
}

// ReadRunMetadata loads the run's meta.json.
func (s *Store) ReadRunMetadata(runDir string) (model.RunMetadata, error) {
	var meta model.RunMetadata
	raw, err := os.ReadFile(filepath.Join(runDir, metadataFile))
	if err != nil {
		return meta, fmt.Errorf("read run metadata: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("parse run metadata: %w", err)
	}
	return meta, nil
}

// WriteResults writes the per-domain results file for a run.
func (s *Store) WriteResults(runDir, domain string, results []model.EvaluationResult) error {
	return writeJSONAtomic(filepath.Join(runDir, domain+resultsSuffix), results)
}

// ReadRunResults loads all per-domain result files under a run directory.
// Malformed files are skipped and reported as warnings rather than
// aborting the whole report.
func (s *Store) ReadRunResults(runDir string) (map[string][]model.EvaluationResult, []string, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, nil, fmt.Errorf("read run dir: %w", err)
	}

	byDomain := make(map[string][]model.EvaluationResult)
	var warnings []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, resultsSuffix) {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(runDir, name))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", name, err))
			continue
		}

		var results []model.EvaluationResult
		if err := json.Unmarshal(raw, &results); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping malformed %s: %v", name, err))
			continue
		}

		domain := strings.TrimSuffix(name, resultsSuffix)
		byDomain[domain] = results
	}

	return byDomain, warnings, nil
}

// SanitizeModelID makes a model identifier safe for use in a directory
// name (e.g. "anthropic/claude-3-opus" -> "anthropic_claude-3-opus").
func SanitizeModelID(id string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	out := replacer.Replace(id)
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}

// writeJSONAtomic writes v as indented JSON via a temp file and rename,
// so readers never observe a partially written file.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
