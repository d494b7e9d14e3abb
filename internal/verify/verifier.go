package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/model"
)

// maxUniqueResults is the largest result count still considered unique:
// a string found on more than two pages is attributable to the web at
// large, not to one source.
const maxUniqueResults = 2

// SearchResult is one web result from the uniqueness oracle.
type SearchResult struct {
	URL string `json:"url"`
}

// SearchClient issues exact-phrase web searches. Implementations wrap a
// real search API; tests substitute a stub.
type SearchClient interface {
	SearchExactPhrase(ctx context.Context, phrase string, count int) ([]SearchResult, error)
}

// Verifier checks that a literal string is attributable essentially only
// to its claimed source. This is a heuristic oracle, not a proof.
type Verifier struct {
	client     SearchClient
	maxResults int
}

// NewVerifier creates a verifier over the given search client. A nil
// client puts the verifier in degraded mode: every check passes with a
// "skipped" reason. That is a deliberate fail-open default for offline
// generation, not a security property.
func NewVerifier(client SearchClient, maxResults int) *Verifier {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Verifier{client: client, maxResults: maxResults}
}

// Verify checks whether text is attributable only to sourceURL. Search
// backend failures never surface as errors; they degrade to a
// conservative not-unique outcome with the failure captured in Reason.
func (v *Verifier) Verify(ctx context.Context, text, sourceURL string) model.VerificationResult {
	query := fmt.Sprintf("%q", text)

	if v.client == nil {
		return model.VerificationResult{
			IsUnique:        true,
			SearchQueryUsed: query,
			Reason:          "skipped: no search API key configured",
		}
	}

	results, err := v.client.SearchExactPhrase(ctx, text, v.maxResults)
	if err != nil {
		return model.VerificationResult{
			IsUnique:        false,
			SearchQueryUsed: query,
			Reason:          fmt.Sprintf("search API error: %v", err),
		}
	}

	count := len(results)

	if count > maxUniqueResults {
		return model.VerificationResult{
			IsUnique:          false,
			SearchQueryUsed:   query,
			SearchResultCount: count,
			Reason:            "too many results",
		}
	}

	if count > 0 && !sourceInResults(results, sourceURL) {
		return model.VerificationResult{
			IsUnique:          false,
			SearchQueryUsed:   query,
			SearchResultCount: count,
			Reason:            "results found, but none match the source URL",
		}
	}

	return model.VerificationResult{
		IsUnique:          true,
		SearchQueryUsed:   query,
		SearchResultCount: count,
		Reason:            "string appears to be unique to the source",
	}
}

func sourceInResults(results []SearchResult, sourceURL string) bool {
	for _, r := range results {
		if strings.Contains(r.URL, sourceURL) {
			return true
		}
	}
	return false
}

// BraveClient implements SearchClient over the Brave Search web API.
type BraveClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewBraveClient creates a Brave search client.
func NewBraveClient(apiKey, baseURL string, timeout time.Duration) *BraveClient {
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1/web/search"
	}
	return &BraveClient{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

type braveResponse struct {
	Web struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	} `json:"web"`
}

// SearchExactPhrase issues a quoted exact-match query.
func (c *BraveClient) SearchExactPhrase(ctx context.Context, phrase string, count int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", phrase))
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, SearchResult{URL: r.URL})
	}
	return results, nil
}
