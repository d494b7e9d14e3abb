// Package evalrun evaluates a language model against benchmark files:
// one completion per record, tri-state classification, abstention-aware
// scoring, and per-domain persistence under a run directory.
package evalrun

import (
	"regexp"
	"strings"

	"github.com/ppiankov/anchorbench/internal/model"
)

// abstentionPhrases mark a response as a deliberate abstention. Matched
// as whole words, case-insensitive, before any correctness check.
var abstentionPhrases = []string{
	"unknown",
	"not sure",
	"cannot determine",
	"can't say",
	"no idea",
	"i don't know",
	"insufficient information",
}

var abstentionPatterns = compileAbstentionPatterns()

func compileAbstentionPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(abstentionPhrases))
	for _, phrase := range abstentionPhrases {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(phrase)+`\b`))
	}
	return patterns
}

var (
	exactYesRe = regexp.MustCompile(`^yes[.!?,]*$`)
	exactNoRe  = regexp.MustCompile(`^no[.!?,]*$`)
	yesTokenRe = regexp.MustCompile(`\byes\b`)
	noTokenRe  = regexp.MustCompile(`\bno\b`)
)

// Classify maps a raw completion and the expected answer to a verdict.
// Abstention detection runs first: an abstaining response is unknown no
// matter what was expected. Binary answers are matched on the yes/no
// token; ambiguous output (both tokens, or neither) is incorrect rather
// than unknown. Open-form answers match by case-insensitive substring.
func Classify(expected, response string) model.Classification {
	normalized := strings.ToLower(strings.TrimSpace(response))
	if normalized == "" {
		return model.ClassificationIncorrect
	}

	for _, pattern := range abstentionPatterns {
		if pattern.MatchString(normalized) {
			return model.ClassificationUnknown
		}
	}

	expectedNorm := strings.ToLower(strings.TrimSpace(expected))
	if expectedNorm == "yes" || expectedNorm == "no" {
		return classifyBinary(expectedNorm, normalized)
	}

	if strings.Contains(normalized, expectedNorm) {
		return model.ClassificationCorrect
	}
	return model.ClassificationIncorrect
}

func classifyBinary(expected, response string) model.Classification {
	// A bare yes/no with trailing punctuation wins outright.
	if exactYesRe.MatchString(response) {
		return verdict(expected == "yes")
	}
	if exactNoRe.MatchString(response) {
		return verdict(expected == "no")
	}

	hasYes := yesTokenRe.MatchString(response)
	hasNo := noTokenRe.MatchString(response)
	if hasYes == hasNo {
		return model.ClassificationIncorrect
	}

	prediction := "no"
	if hasYes {
		prediction = "yes"
	}
	return verdict(prediction == expected)
}

func verdict(correct bool) model.Classification {
	if correct {
		return model.ClassificationCorrect
	}
	return model.ClassificationIncorrect
}
