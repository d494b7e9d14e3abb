package extract

import (
	"regexp"
	"sort"
	"strings"
)

// minKeywordLen filters out short tokens: anything of 6 characters or
// fewer is too likely to be guessable vocabulary.
const minKeywordLen = 6

var wordRe = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// KeywordExtractor pulls distinctive keywords out of free text: lowercase
// word tokens longer than six characters that are neither common English
// words nor part of the subject's own vocabulary (e.g. an article title).
type KeywordExtractor struct {
	common WordSet
}

// NewKeywordExtractor creates a keyword extractor over the given
// common-word set.
func NewKeywordExtractor(common WordSet) *KeywordExtractor {
	return &KeywordExtractor{common: common}
}

// Extract returns the distinctive keywords of text, sorted for stable
// output. exclude is the subject's own vocabulary (title or similar);
// tokens appearing in it are rejected so a question never tests a word
// the subject name gives away.
func (e *KeywordExtractor) Extract(text, exclude string) []string {
	lowerExclude := strings.ToLower(exclude)

	seen := make(map[string]bool)
	for _, token := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(token) <= minKeywordLen {
			continue
		}
		if e.common.Contains(token) {
			continue
		}
		if lowerExclude != "" && strings.Contains(lowerExclude, token) {
			continue
		}
		seen[token] = true
	}

	keywords := make([]string, 0, len(seen))
	for token := range seen {
		keywords = append(keywords, token)
	}
	sort.Strings(keywords)
	return keywords
}
