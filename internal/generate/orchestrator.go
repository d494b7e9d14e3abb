package generate

import (
	"context"

	"github.com/ppiankov/anchorbench/internal/store"
)

// Orchestrator drives benchmark generation across registered domains.
// Domains run strictly sequentially; one domain's failure never aborts
// the others.
type Orchestrator struct {
	registry *Registry
	verifier Verifier
	store    *store.Store
	sink     LogSink
}

// NewOrchestrator creates a generation orchestrator.
func NewOrchestrator(registry *Registry, verifier Verifier, st *store.Store, sink LogSink) *Orchestrator {
	if sink == nil {
		sink = func(string, ...interface{}) {}
	}
	return &Orchestrator{
		registry: registry,
		verifier: verifier,
		store:    st,
		sink:     sink,
	}
}

// Run generates benchmarks for the given domains (all registered domains
// when empty). Each domain either writes a fresh benchmark file or is
// skipped entirely; there is no partial merge.
func (o *Orchestrator) Run(ctx context.Context, domains []string, count int, force bool) {
	if len(domains) == 0 {
		domains = o.registry.Domains()
	}

	for _, domain := range domains {
		gen, ok := o.registry.Get(domain)
		if !ok {
			o.sink("warning: no generator registered for domain %q, skipping", domain)
			continue
		}

		if o.store.BenchmarkExists(domain) && !force {
			o.sink("skipping %q: benchmark file already exists (use --force to regenerate)", domain)
			continue
		}

		o.sink("generating for domain: %s", domain)

		records, err := gen.Generate(ctx, count, o.sink, o.verifier)
		if err != nil {
			o.sink("✗ domain %q failed: %v", domain, err)
			continue
		}

		if len(records) == 0 {
			o.sink("✗ domain %q produced no records", domain)
			continue
		}
		if len(records) < count {
			o.sink("domain %q produced %d of %d requested records (probe budget exhausted)", domain, len(records), count)
		}

		if err := o.store.WriteBenchmark(domain, records); err != nil {
			o.sink("✗ domain %q: write benchmark: %v", domain, err)
			continue
		}

		o.sink("✓ wrote %d records to %s", len(records), o.store.BenchmarkPath(domain))
	}
}
