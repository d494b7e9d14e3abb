package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestKeywordExtractor_LengthFilter(t *testing.T) {
	extractor := NewKeywordExtractor(NewWordSet(nil))

	keywords := extractor.Extract("short words only here but xylophonist stays", "")

	for _, kw := range keywords {
		if len(kw) <= minKeywordLen {
			t.Errorf("keyword '%s' too short (%d chars)", kw, len(kw))
		}
	}

	found := false
	for _, kw := range keywords {
		if kw == "xylophonist" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'xylophonist' to be extracted")
	}
}

func TestKeywordExtractor_CommonWordsFiltered(t *testing.T) {
	common := NewWordSet([]string{"mechanical", "keyboard"})
	extractor := NewKeywordExtractor(common)

	keywords := extractor.Extract("mechanical keyboard switches feel tactile; gateron clones differ", "")

	for _, kw := range keywords {
		if kw == "mechanical" || kw == "keyboard" {
			t.Errorf("common word '%s' should be filtered", kw)
		}
	}

	found := false
	for _, kw := range keywords {
		if kw == "gateron" {
			found = true
		}
	}
	if !found {
		t.Error("expected uncommon word 'gateron' to survive")
	}
}

func TestKeywordExtractor_ExclusionContext(t *testing.T) {
	extractor := NewKeywordExtractor(NewWordSet(nil))

	// "Pallasite" appears in the subject title, so it must not be offered
	// as a keyword even though it is distinctive
	keywords := extractor.Extract(
		"A pallasite contains olivine crystals embedded in meteoric nickeliron matrices",
		"Pallasite meteorite",
	)

	for _, kw := range keywords {
		if kw == "pallasite" {
			t.Error("keyword from exclusion context should be filtered")
		}
	}
}

func TestKeywordExtractor_Lowercasing(t *testing.T) {
	extractor := NewKeywordExtractor(NewWordSet(nil))

	keywords := extractor.Extract("GEOCACHING enthusiasts LOVE Waypoint MARKERS", "")

	for _, kw := range keywords {
		if kw != toLower(kw) {
			t.Errorf("expected lowercase keyword, got '%s'", kw)
		}
	}
}

func toLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 32
		}
	}
	return string(out)
}

func TestKeywordExtractor_Deduplication(t *testing.T) {
	extractor := NewKeywordExtractor(NewWordSet(nil))

	keywords := extractor.Extract("solarpunk solarpunk solarpunk aesthetic movements", "")

	count := 0
	for _, kw := range keywords {
		if kw == "solarpunk" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected 'solarpunk' once, got %d times", count)
	}
}

func TestWordListLoader_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("apple\nbanana\ncherry\n"))
	}))
	defer server.Close()

	loader := NewWordListLoader(5*time.Second, nil, server.URL)
	words, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !words.Contains("apple") || !words.Contains("BANANA") {
		t.Error("expected downloaded words in set (case-insensitive)")
	}
	if words.Contains("durian") {
		t.Error("unexpected word in set")
	}
}

func TestWordListLoader_FallbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := NewWordListLoader(5*time.Second, nil, server.URL)
	words, err := loader.Load(context.Background())
	if err == nil {
		t.Error("expected error reporting the failed download")
	}

	// Fallback stop words must still be usable
	if !words.Contains("the") {
		t.Error("expected fallback stop words in set")
	}
}

func TestWordListLoader_CacheHit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("cached\n"))
	}))
	defer server.Close()

	store := newFakeCache()
	loader := NewWordListLoader(5*time.Second, store, server.URL)

	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 download with cache, got %d", calls)
	}
}

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}
