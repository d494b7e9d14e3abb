package sources

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/extract"
	"github.com/ppiankov/anchorbench/internal/generate"
	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/worker"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// nicheCategories hold articles obscure enough that their lead sentences
// are poor memorization targets.
var nicheCategories = []string{
	"Category:Defunct software companies of the United States",
	"Category:Geological phenomena",
	"Category:Units of time",
	"Category:Astronomical catalogues",
	"Category:19th-century inventions",
}

const (
	wikipediaProbeLimit = 50
	minSentenceLen      = 25
	maxSentenceLen      = 400
)

// Wikipedia generates binary keyword questions from article lead
// sentences: does the first sentence of article X contain the word Y?
type Wikipedia struct {
	client  *Client
	words   *extract.WordListLoader
	sampler *generate.Sampler
	delay   time.Duration
	rng     *rand.Rand
}

// NewWikipedia creates the Wikipedia generator.
func NewWikipedia(client *Client, words *extract.WordListLoader, cfg model.GenerationConfig) *Wikipedia {
	return &Wikipedia{
		client:  client,
		words:   words,
		sampler: generate.NewSampler(cfg.FakeoutAttempts),
		delay:   1200 * time.Millisecond,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Domain returns the benchmark domain name.
func (w *Wikipedia) Domain() string { return "wikipedia" }

type wikiArticle struct {
	title        string
	sentence     string
	keywords     []string
	lastModified string
}

// Generate probes articles from the first niche category that yields
// pages, then samples balanced Yes/No questions. The uniqueness oracle is
// not consulted: the claim is checked against the article text itself.
func (w *Wikipedia) Generate(ctx context.Context, count int, sink generate.LogSink, _ generate.Verifier) ([]model.QARecord, error) {
	common, err := w.words.Load(ctx)
	if err != nil {
		sink("warning: %v (using built-in stop words)", err)
	}
	keywords := extract.NewKeywordExtractor(common)

	pages, err := w.pagesFromCategories(ctx, sink)
	if err != nil {
		return nil, err
	}

	w.rng.Shuffle(len(pages), func(i, j int) {
		pages[i], pages[j] = pages[j], pages[i]
	})

	articles, pool, err := w.buildArticleMap(ctx, pages, keywords, sink)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 || len(pool) == 0 {
		return nil, errors.New("no article yielded a usable lead sentence")
	}

	sink("built map with %d articles and %d unique keywords", len(articles), len(pool))

	var records []model.QARecord
	for attempts := 0; len(records) < count && attempts < count*10; attempts++ {
		article := articles[w.rng.Intn(len(articles))]

		claim, ok := w.sampler.Sample(article.keywords, pool, article.title)
		if !ok {
			continue
		}

		sink("generating %q question for article %q (word %s)", claim.Answer, article.title, claim.Fact)

		question := fmt.Sprintf("Does the first sentence of the English Wikipedia article for '%s' contain the word '%s'? Answer Yes or No.", article.title, claim.Fact)
		sourceURL := "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(article.title, " ", "_")

		records = append(records, generate.AssembleRecord(
			"wikipedia",
			strings.ReplaceAll(article.title, " ", "_"),
			sourceURL,
			question,
			claim.Answer,
			map[string]interface{}{
				"article_title":     article.title,
				"question_type":     claim.Answer,
				"word_tested":       claim.Fact,
				"last_modified_utc": article.lastModified,
			},
		))
	}

	return records, nil
}

type wikiCategoryResponse struct {
	Query struct {
		CategoryMembers []struct {
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
}

// pagesFromCategories tries the niche categories in random order and
// returns the articles of the first one that yields any.
func (w *Wikipedia) pagesFromCategories(ctx context.Context, sink generate.LogSink) ([]string, error) {
	categories := append([]string(nil), nicheCategories...)
	w.rng.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	for _, category := range categories {
		sink("fetching pages from category %q", category)

		params := url.Values{}
		params.Set("action", "query")
		params.Set("format", "json")
		params.Set("list", "categorymembers")
		params.Set("cmtitle", category)
		params.Set("cmlimit", "500")

		var resp wikiCategoryResponse
		if err := w.client.GetJSON(ctx, wikipediaAPIURL+"?"+params.Encode(), nil, &resp); err != nil {
			sink("warning: category %q: %v", category, err)
			continue
		}

		var pages []string
		for _, member := range resp.Query.CategoryMembers {
			if member.NS == 0 {
				pages = append(pages, member.Title)
			}
		}
		if len(pages) > 0 {
			sink("found %d pages", len(pages))
			return pages, nil
		}
	}

	return nil, errors.New("no pages found in any category")
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract   string `json:"extract"`
			Revisions []struct {
				Timestamp string `json:"timestamp"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// buildArticleMap probes articles for lead sentences until the probe
// limit is reached.
func (w *Wikipedia) buildArticleMap(ctx context.Context, pages []string, keywords *extract.KeywordExtractor, sink generate.LogSink) ([]wikiArticle, []string, error) {
	var articles []wikiArticle
	seen := make(map[string]bool)
	var pool []string

	for i, title := range pages {
		if i >= wikipediaProbeLimit {
			break
		}

		sink("probing article (%d/%d): %s", i+1, wikipediaProbeLimit, title)

		sentence, lastModified, err := w.firstSentence(ctx, title)
		if err == nil && sentence != "" {
			words := keywords.Extract(sentence, title)
			if len(words) > 0 {
				articles = append(articles, wikiArticle{
					title:        title,
					sentence:     sentence,
					keywords:     words,
					lastModified: lastModified,
				})
				for _, word := range words {
					if !seen[word] {
						seen[word] = true
						pool = append(pool, word)
					}
				}
			}
		}

		if err := worker.Sleep(ctx, w.delay); err != nil {
			return nil, nil, err
		}
	}

	return articles, pool, nil
}

// firstSentence fetches the plain-text introduction of the article and
// returns its first sentence, or empty when the sentence is unusable
// (too short, too long, or a disambiguation stub).
func (w *Wikipedia) firstSentence(ctx context.Context, title string) (string, string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|revisions")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("format", "json")
	params.Set("titles", title)
	params.Set("redirects", "1")

	var resp wikiExtractResponse
	if err := w.client.GetJSON(ctx, wikipediaAPIURL+"?"+params.Encode(), nil, &resp); err != nil {
		return "", "", err
	}

	for id, page := range resp.Query.Pages {
		if id == "-1" || page.Extract == "" {
			continue
		}

		sentence := strings.TrimSpace(strings.SplitN(page.Extract, ".", 2)[0]) + "."
		if len(sentence) <= minSentenceLen || len(sentence) >= maxSentenceLen {
			continue
		}
		if strings.Contains(strings.ToLower(sentence), "may refer to") {
			continue
		}

		lastModified := ""
		if len(page.Revisions) > 0 {
			lastModified = page.Revisions[0].Timestamp
		}
		return sentence, lastModified, nil
	}

	return "", "", nil
}
