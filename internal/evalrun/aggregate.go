package evalrun

import (
	"sort"

	"github.com/ppiankov/anchorbench/internal/model"
)

// Summary is the fold of one result sequence. Accuracy is a percentage;
// AvgScore averages over all results including abstentions.
type Summary struct {
	Correct   int
	Unknown   int
	Incorrect int
	Total     int
	Accuracy  float64
	AvgScore  float64
}

// migrateClassification derives a verdict for records written before the
// tri-state scheme existed, which carry only a correctness flag. Any
// unrecognized classification value is treated as incorrect.
func migrateClassification(r model.EvaluationResult) model.Classification {
	switch r.Classification {
	case model.ClassificationCorrect, model.ClassificationUnknown, model.ClassificationIncorrect:
		return r.Classification
	case "":
		if r.IsCorrect {
			return model.ClassificationCorrect
		}
		return model.ClassificationIncorrect
	default:
		return model.ClassificationIncorrect
	}
}

// Aggregate folds results into a summary.
func Aggregate(results []model.EvaluationResult) Summary {
	var s Summary
	var scoreSum float64

	for _, r := range results {
		s.Total++
		scoreSum += r.Score
		switch migrateClassification(r) {
		case model.ClassificationCorrect:
			s.Correct++
		case model.ClassificationUnknown:
			s.Unknown++
		default:
			s.Incorrect++
		}
	}

	if s.Total > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Total) * 100
		s.AvgScore = scoreSum / float64(s.Total)
	}
	return s
}

// AggregateByDomain folds per-domain result sets and the overall total.
func AggregateByDomain(byDomain map[string][]model.EvaluationResult) (map[string]Summary, Summary) {
	summaries := make(map[string]Summary, len(byDomain))
	var all []model.EvaluationResult

	for domain, results := range byDomain {
		summaries[domain] = Aggregate(results)
		all = append(all, results...)
	}
	return summaries, Aggregate(all)
}

// Domains returns the summary keys in stable order for reporting.
func Domains(summaries map[string]Summary) []string {
	domains := make([]string, 0, len(summaries))
	for d := range summaries {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
