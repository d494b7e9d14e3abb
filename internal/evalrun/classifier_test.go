package evalrun

import (
	"testing"

	"github.com/ppiankov/anchorbench/internal/model"
)

func TestClassify_Binary(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		response string
		want     model.Classification
	}{
		{"exact yes", "Yes", "Yes.", model.ClassificationCorrect},
		{"exact no", "No", "No", model.ClassificationCorrect},
		{"exact yes wrong", "No", "Yes!", model.ClassificationIncorrect},
		{"verbose no against yes", "Yes", "No, it does not.", model.ClassificationIncorrect},
		{"verbose yes", "Yes", "The answer is yes, I believe.", model.ClassificationCorrect},
		{"both tokens ambiguous", "Yes", "Yes and no, depending.", model.ClassificationIncorrect},
		{"neither token", "Yes", "The comment mentions keyboards.", model.ClassificationIncorrect},
		{"case insensitive", "yes", "YES.", model.ClassificationCorrect},
		{"leading whitespace", "No", "   no.  ", model.ClassificationCorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.expected, tt.response); got != tt.want {
				t.Errorf("Classify(%q, %q) = %s, want %s", tt.expected, tt.response, got, tt.want)
			}
		})
	}
}

func TestClassify_AbstentionPrecedesEverything(t *testing.T) {
	tests := []struct {
		expected string
		response string
	}{
		{"Yes", "I'm not sure."},
		{"No", "Unknown"},
		{"Yes", "I cannot determine that from the information available."},
		{"analytics_store", "I don't know the value of that variable."},
		{"No", "no idea"},
		{"Yes", "There is insufficient information to answer."},
	}
	for _, tt := range tests {
		if got := Classify(tt.expected, tt.response); got != model.ClassificationUnknown {
			t.Errorf("Classify(%q, %q) = %s, want unknown", tt.expected, tt.response, got)
		}
	}
}

func TestClassify_AbstentionWholeWordOnly(t *testing.T) {
	// "unknown" embedded in an identifier is not an abstention
	if got := Classify("unknown_flag_42x", "The value is unknown_flag_42x."); got != model.ClassificationCorrect {
		t.Errorf("expected correct for identifier containing an abstention word, got %s", got)
	}
}

func TestClassify_OpenForm(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		response string
		want     model.Classification
	}{
		{"substring match", "analytics_store", "The variable db_name is set to \"analytics_store\".", model.ClassificationCorrect},
		{"case-folded match", "Analytics_Store", "the value is analytics_store", model.ClassificationCorrect},
		{"no match", "analytics_store", "The value is users_db.", model.ClassificationIncorrect},
		{"empty response", "analytics_store", "", model.ClassificationIncorrect},
		{"whitespace-only response", "analytics_store", "   ", model.ClassificationIncorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.expected, tt.response); got != tt.want {
				t.Errorf("Classify(%q, %q) = %s, want %s", tt.expected, tt.response, got, tt.want)
			}
		})
	}
}

func TestClassify_IdempotentUnderNormalization(t *testing.T) {
	variants := []string{"Yes.", "  yes. ", "YES.", "yes."}
	for _, v := range variants {
		if got := Classify("Yes", v); got != model.ClassificationCorrect {
			t.Errorf("Classify(Yes, %q) = %s, want correct", v, got)
		}
	}
}
