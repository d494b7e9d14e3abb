package generate

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/anchorbench/internal/model"
)

// LogSink receives progress lines from generators. The orchestrator hands
// each generator a sink instead of letting it write to the console
// directly.
type LogSink func(format string, args ...interface{})

// Verifier is the uniqueness oracle generators gate candidates on.
type Verifier interface {
	Verify(ctx context.Context, text, sourceURL string) model.VerificationResult
}

// Generator produces benchmark records for one domain. A short or empty
// result is a valid outcome, not an error; generators return errors only
// for failures that make the whole domain pass meaningless.
type Generator interface {
	Domain() string
	Generate(ctx context.Context, count int, sink LogSink, verifier Verifier) ([]model.QARecord, error)
}

// Registry maps domain names to generators. It is populated by static
// registration at process start; there is no runtime discovery.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds a generator. Registering a duplicate domain is a
// programming error.
func (r *Registry) Register(g Generator) error {
	domain := g.Domain()
	if _, exists := r.generators[domain]; exists {
		return fmt.Errorf("generator for domain %q already registered", domain)
	}
	r.generators[domain] = g
	return nil
}

// Get returns the generator for a domain.
func (r *Registry) Get(domain string) (Generator, bool) {
	g, ok := r.generators[domain]
	return g, ok
}

// Domains returns all registered domain names, sorted.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.generators))
	for d := range r.generators {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
