package sources

import (
	"context"
	"encoding/json"
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

const redditBaseURL = "https://www.reddit.com"

// nicheTopics are search terms whose threads stay obscure enough that
// comment content is unlikely to appear in model training data verbatim.
var nicheTopics = []string{
	"procedural generation", "vintage computing", "sffpc", "home server",
	"mechanical keyboards", "fountain pens", "geocaching", "lockpicking",
	"mycology", "solarpunk", "worldbuilding", "urban exploration", "roguelikedev",
}

// excludedSubreddits are too high-traffic for obscurity.
var excludedSubreddits = map[string]bool{
	"askreddit": true,
	"funny":     true,
}

const (
	minCommentLen = 20
	maxCommentLen = 400
)

// Reddit generates binary keyword questions from low-score thread
// comments: does the comment at URL X contain the word Y?
type Reddit struct {
	client  *Client
	words   *extract.WordListLoader
	sampler *generate.Sampler
	delay   time.Duration
	rng     *rand.Rand
}

// NewReddit creates the Reddit generator.
func NewReddit(client *Client, words *extract.WordListLoader, cfg model.GenerationConfig) *Reddit {
	return &Reddit{
		client:  client,
		words:   words,
		sampler: generate.NewSampler(cfg.FakeoutAttempts),
		delay:   1200 * time.Millisecond,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Domain returns the benchmark domain name.
func (r *Reddit) Domain() string { return "reddit" }

type redditComment struct {
	id         string
	subreddit  string
	permalink  string
	keywords   []string
	createdUTC time.Time
}

// Generate searches one niche topic, harvests comment keywords from the
// matching threads, and samples balanced Yes/No questions. Verification
// runs on each item but does not gate it: keyword presence is checked
// against the comment text itself, so the oracle result is recorded as
// provenance only.
func (r *Reddit) Generate(ctx context.Context, count int, sink generate.LogSink, verifier generate.Verifier) ([]model.QARecord, error) {
	common, err := r.words.Load(ctx)
	if err != nil {
		sink("warning: %v (using built-in stop words)", err)
	}
	keywords := extract.NewKeywordExtractor(common)

	topic := nicheTopics[r.rng.Intn(len(nicheTopics))]
	sink("searching for obscure posts (topic %q)", topic)

	posts, err := r.searchPosts(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	if len(posts) == 0 {
		return nil, errors.New("no posts matched the topic search")
	}

	sink("aggregating comments and keywords from %d posts", len(posts))

	comments, pool, err := r.harvestComments(ctx, posts, keywords, sink)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 || len(pool) == 0 {
		return nil, errors.New("no comment yielded usable keywords")
	}

	sink("found %d candidate comments and %d unique keywords", len(comments), len(pool))

	var records []model.QARecord
	for attempts := 0; len(records) < count && attempts < count*10; attempts++ {
		comment := comments[r.rng.Intn(len(comments))]

		claim, ok := r.sampler.Sample(comment.keywords, pool, "")
		if !ok {
			continue
		}

		sourceURL := redditBaseURL + comment.permalink
		sink("generating %q question for comment %s (keyword %s)", claim.Answer, comment.id, claim.Fact)

		verification := verifier.Verify(ctx, fmt.Sprintf("%q %q", claim.Fact, topic), sourceURL)

		question := fmt.Sprintf("Does the Reddit comment at the URL %s contain the word '%s'? Answer Yes or No.", sourceURL, claim.Fact)

		records = append(records, generate.AssembleRecord(
			"reddit",
			comment.id,
			sourceURL,
			question,
			claim.Answer,
			map[string]interface{}{
				"topic":                topic,
				"subreddit":            comment.subreddit,
				"question_type":        claim.Answer,
				"keyword_tested":       claim.Fact,
				"created_utc":          comment.createdUTC.UTC().Format(time.RFC3339),
				"verification_details": verification,
			},
		))
	}

	return records, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Permalink   string  `json:"permalink"`
	NumComments int     `json:"num_comments"`
	Body        string  `json:"body"`
	CreatedUTC  float64 `json:"created_utc"`
}

// searchPosts finds low-score posts for the topic. High-traffic subreddits
// and threads without comments are dropped.
func (r *Reddit) searchPosts(ctx context.Context, topic string) ([]redditThing, error) {
	searchURL := fmt.Sprintf("%s/search.json?q=%s&sort=new&limit=100&t=all&type=link&score=0..5",
		redditBaseURL, url.QueryEscape(topic))

	var listing redditListing
	if err := r.client.GetJSON(ctx, searchURL, nil, &listing); err != nil {
		return nil, err
	}

	var posts []redditThing
	for _, child := range listing.Data.Children {
		post := child.Data
		if post.NumComments == 0 {
			continue
		}
		if excludedSubreddits[strings.ToLower(post.Subreddit)] {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// harvestComments fetches each thread and extracts keywords from every
// qualifying comment. Returns the comments and the deduplicated global
// keyword pool.
func (r *Reddit) harvestComments(ctx context.Context, posts []redditThing, keywords *extract.KeywordExtractor, sink generate.LogSink) ([]redditComment, []string, error) {
	var comments []redditComment
	seen := make(map[string]bool)
	var pool []string

	for _, post := range posts {
		if post.Permalink == "" {
			continue
		}

		thread, err := r.fetchThread(ctx, post.Permalink)
		if err != nil {
			if err := worker.Sleep(ctx, r.delay); err != nil {
				return nil, nil, err
			}
			continue
		}

		for _, child := range thread {
			comment := child
			body := strings.TrimSpace(comment.Body)
			if len(body) <= minCommentLen || len(body) >= maxCommentLen {
				continue
			}
			if body == "[deleted]" || body == "[removed]" {
				continue
			}

			words := keywords.Extract(body, "")
			if len(words) == 0 {
				continue
			}

			comments = append(comments, redditComment{
				id:         comment.ID,
				subreddit:  comment.Subreddit,
				permalink:  comment.Permalink,
				keywords:   words,
				createdUTC: time.Unix(int64(comment.CreatedUTC), 0),
			})
			for _, w := range words {
				if !seen[w] {
					seen[w] = true
					pool = append(pool, w)
				}
			}
		}

		sink("fetched %s", post.Permalink)
		if err := worker.Sleep(ctx, r.delay); err != nil {
			return nil, nil, err
		}
	}

	return comments, pool, nil
}

// fetchThread returns the comments of a thread. The endpoint responds
// with a two-element array: the post listing, then the comment listing.
func (r *Reddit) fetchThread(ctx context.Context, permalink string) ([]redditThing, error) {
	threadURL := redditBaseURL + permalink
	if !strings.HasSuffix(threadURL, ".json") {
		threadURL = strings.TrimSuffix(threadURL, "/") + ".json"
	}

	body, err := r.client.Get(ctx, threadURL, nil)
	if err != nil {
		return nil, err
	}

	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", permalink, err)
	}
	if len(listings) < 2 {
		return nil, fmt.Errorf("thread %s has no comment listing", permalink)
	}

	var comments []redditThing
	for _, child := range listings[1].Data.Children {
		comments = append(comments, child.Data)
	}
	return comments, nil
}
