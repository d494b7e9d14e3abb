package generate

import (
	"strings"
	"testing"

	"github.com/ppiankov/anchorbench/internal/model"
)

func TestNewRecordID_Shape(t *testing.T) {
	id := NewRecordID("github", "8675309")

	if !strings.HasPrefix(id, "github-8675309-") {
		t.Errorf("expected domain and entity prefix, got %s", id)
	}

	suffix := strings.TrimPrefix(id, "github-8675309-")
	if len(suffix) != 8 {
		t.Errorf("expected 8-char suffix, got %q", suffix)
	}
}

func TestNewRecordID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewRecordID("pypi", "pkg")
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestAssembleRecord(t *testing.T) {
	verification := model.VerificationResult{
		IsUnique:          true,
		SearchResultCount: 1,
		Reason:            "string appears to be unique to the source",
	}

	record := AssembleRecord(
		"github",
		"12345",
		"https://github.com/owner/repo/blob/main/settings.py",
		"What is the value of `db_name`?",
		"analytics_store",
		map[string]interface{}{
			"variable_name":        "db_name",
			"verification_details": verification,
		},
	)

	if record.Domain != "github" {
		t.Errorf("unexpected domain %s", record.Domain)
	}
	if record.EvalMethod != model.EvalMethodStringMatch {
		t.Errorf("unexpected eval method %s", record.EvalMethod)
	}
	if record.Answer != "analytics_store" {
		t.Errorf("unexpected answer %s", record.Answer)
	}
	if record.GenerationMetadata["variable_name"] != "db_name" {
		t.Error("expected provenance carried through")
	}
	if !strings.HasPrefix(record.ID, "github-12345-") {
		t.Errorf("unexpected ID %s", record.ID)
	}
}

func TestAssembleRecord_NilMetadata(t *testing.T) {
	record := AssembleRecord("pypi", "pkg", "https://pypi.org/project/pkg/", "q", "Yes", nil)

	if record.GenerationMetadata == nil {
		t.Error("expected non-nil metadata map")
	}
}
