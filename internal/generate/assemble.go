package generate

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ppiankov/anchorbench/internal/model"
)

// NewRecordID composes a benchmark record ID from the domain, the source
// entity identifier, and a random suffix. Collisions are negligible, not
// impossible.
func NewRecordID(domain, entityID string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", domain, entityID, suffix)
}

// AssembleRecord packages a verified candidate into a canonical benchmark
// record. It is a pure transformation: no network, no randomness beyond
// the ID suffix.
func AssembleRecord(domain, entityID, sourceURL, question, answer string, meta map[string]interface{}) model.QARecord {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return model.QARecord{
		ID:                 NewRecordID(domain, entityID),
		Domain:             domain,
		SourceURL:          sourceURL,
		Question:           question,
		Answer:             answer,
		EvalMethod:         model.EvalMethodStringMatch,
		GenerationMetadata: meta,
	}
}
