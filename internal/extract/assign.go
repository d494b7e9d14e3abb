package extract

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/model"
)

// AssignmentRules tunes the assignment-pattern extractor. The zero value is
// not usable; call DefaultAssignmentRules or PopularAssignmentRules.
type AssignmentRules struct {
	MinIdentifierLen int  // minimum identifier length in characters
	MinValueLen      int  // values must be strictly longer than this
	MaxValueLen      int  // values must be strictly shorter than this
	RejectURLValues  bool // drop values starting with "http"
	RequireLetter    bool // drop values with no alphabetic character
}

// DefaultAssignmentRules matches obscure-source extraction: short
// identifiers allowed, any printable value.
func DefaultAssignmentRules() AssignmentRules {
	return AssignmentRules{
		MinIdentifierLen: 4,
		MinValueLen:      5,
		MaxValueLen:      100,
	}
}

// PopularAssignmentRules is the stricter variant for well-known sources,
// where generic values (URLs, numeric blobs) are too easy to guess.
func PopularAssignmentRules() AssignmentRules {
	return AssignmentRules{
		MinIdentifierLen: 5,
		MinValueLen:      5,
		MaxValueLen:      100,
		RejectURLValues:  true,
		RequireLetter:    true,
	}
}

// trivialValues are literals too common to anchor a question on.
var trivialValues = map[string]bool{
	"true":  true,
	"false": true,
	"null":  true,
	"":      true,
}

var letterRe = regexp.MustCompile(`[a-zA-Z]`)

// AssignmentExtractor finds `identifier = "value"` style assignments in raw
// text, one candidate per matching line at most.
type AssignmentExtractor struct {
	rules    AssignmentRules
	patterns []*regexp.Regexp
	rng      *rand.Rand
}

// NewAssignmentExtractor compiles the extraction patterns for the rules.
func NewAssignmentExtractor(rules AssignmentRules) *AssignmentExtractor {
	// One pattern per quote character; the opening and closing delimiter
	// must be the same, which RE2 cannot express with a backreference.
	repeat := rules.MinIdentifierLen - 1
	if repeat < 1 {
		repeat = 1
	}
	var patterns []*regexp.Regexp
	for _, q := range []string{`'`, `"`, "`"} {
		expr := fmt.Sprintf(`([A-Za-z_][A-Za-z0-9_]{%d,})\s*[:=]\s*%s(.*?)%s`, repeat, q, q)
		patterns = append(patterns, regexp.MustCompile(expr))
	}

	return &AssignmentExtractor{
		rules:    rules,
		patterns: patterns,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Extract scans content line by line and returns every qualifying
// candidate. Only the first match per line is considered.
func (e *AssignmentExtractor) Extract(content string) []model.Candidate {
	var candidates []model.Candidate

	for _, line := range strings.Split(content, "\n") {
		identifier, value, ok := e.firstMatch(line)
		if !ok {
			continue
		}
		if !e.accept(value) {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Subject: identifier,
			Value:   value,
			Context: line,
		})
	}

	return candidates
}

// Pick selects uniformly at random among the candidates. Random selection
// avoids always anchoring on the first assignment in a file, so repeated
// probes of the same source yield varied items.
func (e *AssignmentExtractor) Pick(candidates []model.Candidate) (model.Candidate, bool) {
	if len(candidates) == 0 {
		return model.Candidate{}, false
	}
	return candidates[e.rng.Intn(len(candidates))], true
}

// firstMatch returns the leftmost assignment match on the line across all
// quote styles.
func (e *AssignmentExtractor) firstMatch(line string) (identifier, value string, ok bool) {
	best := -1
	for _, pattern := range e.patterns {
		loc := pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			identifier = line[loc[2]:loc[3]]
			value = line[loc[4]:loc[5]]
			ok = true
		}
	}
	return identifier, value, ok
}

func (e *AssignmentExtractor) accept(value string) bool {
	if len(value) <= e.rules.MinValueLen || len(value) >= e.rules.MaxValueLen {
		return false
	}
	if trivialValues[strings.ToLower(value)] {
		return false
	}
	if e.rules.RejectURLValues && strings.HasPrefix(value, "http") {
		return false
	}
	if e.rules.RequireLetter && !letterRe.MatchString(value) {
		return false
	}
	return true
}
