package generate

import (
	"math/rand"
	"strings"
	"time"
)

// BinaryClaim is a sampled claim for a Yes/No question.
type BinaryClaim struct {
	Fact   string // the fact the question tests
	Answer string // "Yes" if the fact is true of the subject, "No" otherwise
}

// Sampler produces balanced true/false claims for binary questions. The
// false branch draws a fake-out: a fact from another subject that is
// provably absent from this subject's true-fact pool, so a "No" answer is
// defensible.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewSampler creates a sampler. maxAttempts bounds the rejection-sampling
// loop in the false branch; when the global pool cannot supply a disjoint
// fact the item is skipped rather than looping forever.
func NewSampler(maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = 50
	}
	return &Sampler{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		maxAttempts: maxAttempts,
	}
}

// Sample draws a claim that is true with probability 0.5. truthPool is
// the subject's true facts; globalPool spans all subjects in the batch;
// exclude is the subject's own vocabulary (title), which a fake-out must
// never coincide with. ok is false when no valid claim could be drawn.
func (s *Sampler) Sample(truthPool, globalPool []string, exclude string) (claim BinaryClaim, ok bool) {
	if len(truthPool) == 0 {
		return BinaryClaim{}, false
	}

	if s.rng.Float64() < 0.5 {
		return BinaryClaim{
			Fact:   truthPool[s.rng.Intn(len(truthPool))],
			Answer: "Yes",
		}, true
	}

	fact, ok := s.sampleFakeout(truthPool, globalPool, exclude)
	if !ok {
		return BinaryClaim{}, false
	}
	return BinaryClaim{Fact: fact, Answer: "No"}, true
}

// sampleFakeout rejection-samples the global pool for a fact absent from
// the truth pool and the exclusion vocabulary.
func (s *Sampler) sampleFakeout(truthPool, globalPool []string, exclude string) (string, bool) {
	if len(globalPool) == 0 {
		return "", false
	}

	truth := make(map[string]bool, len(truthPool))
	for _, fact := range truthPool {
		truth[fact] = true
	}
	lowerExclude := strings.ToLower(exclude)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		fact := globalPool[s.rng.Intn(len(globalPool))]
		if truth[fact] {
			continue
		}
		if lowerExclude != "" && strings.Contains(lowerExclude, strings.ToLower(fact)) {
			continue
		}
		return fact, true
	}
	return "", false
}
