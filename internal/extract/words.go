package extract

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/cache"
)

// WordSet is a set of lowercase words.
type WordSet map[string]struct{}

// Contains reports whether the set holds the lowercase form of w.
func (s WordSet) Contains(w string) bool {
	_, ok := s[strings.ToLower(w)]
	return ok
}

// NewWordSet builds a WordSet from a list of words.
func NewWordSet(words []string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// DefaultWordListURL is the public English word list used to filter common
// vocabulary out of keyword candidates.
const DefaultWordListURL = "https://raw.githubusercontent.com/dwyl/english-words/master/words_alpha.txt"

// fallbackStopWords is the built-in filter used when the full word list
// cannot be downloaded.
var fallbackStopWords = []string{
	"the", "a", "an", "is", "are", "was", "were", "in", "on", "at", "to", "for",
	"of", "and", "or", "but", "i", "you", "he", "she", "it", "we", "they", "what",
	"who", "when", "where", "why", "how", "that", "this", "from", "with", "have",
	"has", "had", "do", "does", "did", "not", "no", "be", "been", "about", "like",
	"just", "get", "out", "up", "down", "all", "com", "www", "https", "http",
	"thanks", "welcome",
}

// WordListLoader downloads and caches the common English word list.
type WordListLoader struct {
	httpClient *http.Client
	cache      cache.Cache
	url        string
}

// NewWordListLoader creates a loader. cache may be nil to disable caching.
func NewWordListLoader(timeout time.Duration, store cache.Cache, url string) *WordListLoader {
	if url == "" {
		url = DefaultWordListURL
	}
	return &WordListLoader{
		httpClient: &http.Client{Timeout: timeout},
		cache:      store,
		url:        url,
	}
}

// Load returns the common-word set. On download failure it falls back to
// the built-in stop-word list and reports the failure as a non-fatal
// error; the returned set is always usable.
func (l *WordListLoader) Load(ctx context.Context) (WordSet, error) {
	key := cache.Key(l.url)

	if l.cache != nil {
		if data, found := l.cache.Get(key); found {
			return parseWordList(string(data)), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return NewWordSet(fallbackStopWords), fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return NewWordSet(fallbackStopWords), fmt.Errorf("download word list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewWordSet(fallbackStopWords), fmt.Errorf("download word list: status %d", resp.StatusCode)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return NewWordSet(fallbackStopWords), fmt.Errorf("read word list: %w", err)
	}

	body := sb.String()
	if l.cache != nil {
		_ = l.cache.Set(key, []byte(body), 0)
	}
	return parseWordList(body), nil
}

func parseWordList(body string) WordSet {
	return NewWordSet(strings.Split(body, "\n"))
}
