package sources

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/anchorbench/internal/extract"
	"github.com/ppiankov/anchorbench/internal/generate"
	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/worker"
)

const githubAPIBase = "https://api.github.com"

// githubProfile distinguishes the obscure and popular repository domains.
// The probing loop is identical; what differs is the search corner, the
// candidate filters, and how verification queries and questions are phrased.
type githubProfile struct {
	domain       string
	searchQuery  string
	sortOptions  []string
	order        string
	branches     []string
	filesPerRepo int
	skipSuffixes []string
	skipTests    bool
	rules        extract.AssignmentRules
	verifyText   func(value, repoName string) string
	question     func(repoName, sourceURL, identifier string) string
}

// GitHub generates variable-assignment items from repository files. One
// profile targets near-zero-star repos whose content the model has almost
// certainly never seen; the other targets heavily-starred repos where
// memorization is plausible and uniqueness must be pinned to the repo name.
type GitHub struct {
	client     *Client
	extractor  *extract.AssignmentExtractor
	profile    githubProfile
	token      string
	probeLimit int
	delay      time.Duration
	rng        *rand.Rand
}

// NewGitHub creates the obscure-repository generator.
func NewGitHub(client *Client, cfg model.GenerationConfig) *GitHub {
	profile := githubProfile{
		domain:       "github",
		searchQuery:  "stars:0..1 pushed:<2023-01-01 language:python language:javascript language:ruby language:go language:php",
		sortOptions:  []string{"stars", "forks", "updated"},
		order:        "asc",
		branches:     []string{"main", "master"},
		filesPerRepo: 3,
		skipSuffixes: []string{".png", ".jpg", ".gif", ".lock"},
		rules:        extract.DefaultAssignmentRules(),
		verifyText: func(value, _ string) string {
			return value
		},
		question: func(_, sourceURL, identifier string) string {
			return fmt.Sprintf("In the GitHub file at %s, what is the value of the variable named `%s`?", sourceURL, identifier)
		},
	}
	return newGitHub(client, cfg, profile)
}

func newGitHub(client *Client, cfg model.GenerationConfig, profile githubProfile) *GitHub {
	return &GitHub{
		client:     client,
		extractor:  extract.NewAssignmentExtractor(profile.rules),
		profile:    profile,
		token:      cfg.GitHubToken,
		probeLimit: cfg.EntityProbeLimit,
		delay:      cfg.ProbeDelay,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Domain returns the benchmark domain name.
func (g *GitHub) Domain() string { return g.profile.domain }

// Generate probes repositories until count records are assembled or the
// probe budget runs out.
func (g *GitHub) Generate(ctx context.Context, count int, sink generate.LogSink, verifier generate.Verifier) ([]model.QARecord, error) {
	sink("searching for repositories (%s)", g.profile.domain)

	repos, err := g.searchRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	if len(repos) == 0 {
		return nil, errors.New("no repositories matched the search query")
	}

	g.rng.Shuffle(len(repos), func(i, j int) {
		repos[i], repos[j] = repos[j], repos[i]
	})

	var records []model.QARecord
	checked := 0

	for _, repo := range repos {
		if len(records) >= count || checked >= g.probeLimit {
			break
		}
		checked++

		files, branch, err := g.repoFiles(ctx, repo.FullName)
		if err != nil || len(files) == 0 {
			if err := worker.Sleep(ctx, g.delay); err != nil {
				return records, err
			}
			continue
		}

		sink("probing repo %s (%d files)", repo.FullName, len(files))

		record, found := g.probeRepo(ctx, repo, files, branch, sink, verifier)
		if found {
			records = append(records, record)
		}

		if err := worker.Sleep(ctx, g.delay); err != nil {
			return records, err
		}
	}

	return records, nil
}

// probeRepo tries a few random files from the repository and returns the
// first candidate that survives verification.
func (g *GitHub) probeRepo(ctx context.Context, repo repoItem, files []string, branch string, sink generate.LogSink, verifier generate.Verifier) (model.QARecord, bool) {
	tries := g.profile.filesPerRepo
	if len(files) < tries {
		tries = len(files)
	}

	for i := 0; i < tries; i++ {
		path := files[g.rng.Intn(len(files))]

		content, err := g.fileContent(ctx, repo.FullName, path, branch)
		if err != nil {
			continue
		}

		candidate, ok := g.extractor.Pick(g.extractor.Extract(string(content)))
		if !ok {
			continue
		}

		sourceURL := fmt.Sprintf("%s/blob/%s/%s", repo.HTMLURL, branch, path)

		sink("verifying candidate `%s` from %s", candidate.Subject, path)
		verification := verifier.Verify(ctx, g.profile.verifyText(candidate.Value, repo.FullName), sourceURL)
		if !verification.IsUnique {
			continue
		}

		sink("✓ unique value found in %s", repo.FullName)

		record := generate.AssembleRecord(
			g.profile.domain,
			strconv.FormatInt(repo.ID, 10),
			sourceURL,
			g.profile.question(repo.FullName, sourceURL, candidate.Subject),
			candidate.Value,
			map[string]interface{}{
				"repo_name":            repo.FullName,
				"file_path":            path,
				"variable_name":        candidate.Subject,
				"stars":                repo.Stars,
				"pushed_at":            repo.PushedAt,
				"verification_details": verification,
			},
		)
		return record, true
	}

	return model.QARecord{}, false
}

type repoSearchResponse struct {
	Items []repoItem `json:"items"`
}

type repoItem struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	Stars    int    `json:"stargazers_count"`
	PushedAt string `json:"pushed_at"`
}

func (g *GitHub) searchRepos(ctx context.Context) ([]repoItem, error) {
	sort := g.profile.sortOptions[g.rng.Intn(len(g.profile.sortOptions))]
	searchURL := fmt.Sprintf("%s/search/repositories?q=%s&sort=%s&order=%s&per_page=100",
		githubAPIBase, url.QueryEscape(g.profile.searchQuery), sort, g.profile.order)

	var resp repoSearchResponse
	if err := g.client.GetJSON(ctx, searchURL, g.headers(""), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type treeResponse struct {
	Tree []treeEntry `json:"tree"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// repoFiles lists blobs in the repository, trying each candidate default
// branch in order. Returns the first branch that yields files.
func (g *GitHub) repoFiles(ctx context.Context, fullName string) ([]string, string, error) {
	for _, branch := range g.profile.branches {
		treeURL := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1", githubAPIBase, fullName, branch)

		var resp treeResponse
		if err := g.client.GetJSON(ctx, treeURL, g.headers(""), &resp); err != nil {
			continue
		}

		var files []string
		for _, entry := range resp.Tree {
			if entry.Type != "blob" {
				continue
			}
			if g.skipPath(entry.Path) {
				continue
			}
			files = append(files, entry.Path)
		}
		if len(files) > 0 {
			return files, branch, nil
		}
	}
	return nil, "", errors.New("no usable branch")
}

func (g *GitHub) skipPath(path string) bool {
	if g.profile.skipTests && strings.Contains(strings.ToLower(path), "test") {
		return true
	}
	for _, suffix := range g.profile.skipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func (g *GitHub) fileContent(ctx context.Context, fullName, path, branch string) ([]byte, error) {
	contentURL := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s",
		githubAPIBase, fullName, url.PathEscape(path), url.QueryEscape(branch))
	return g.client.Get(ctx, contentURL, g.headers("application/vnd.github.raw"))
}

// headers builds GitHub API headers. The token is optional; requests work
// unauthenticated at a lower rate limit.
func (g *GitHub) headers(accept string) http.Header {
	if accept == "" {
		accept = "application/vnd.github.v3+json"
	}
	header := http.Header{}
	header.Set("Accept", accept)
	if g.token != "" {
		header.Set("Authorization", "token "+g.token)
	}
	return header
}
