package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/anchorbench/internal/generate"
	"github.com/ppiankov/anchorbench/internal/model"
	"github.com/ppiankov/anchorbench/internal/worker"
)

const (
	pypiSimpleURL   = "https://pypi.org/simple/"
	pypiIndexTTL    = 24 * time.Hour
	pypiProbeDivide = 20
)

// PyPI generates binary dependency questions: does package X directly
// require Y? True facts come from the package's own metadata; fake-outs
// are drawn from the requirement pool of all probed packages.
type PyPI struct {
	client     *Client
	sampler    *generate.Sampler
	probeLimit int
	rng        *rand.Rand
}

// NewPyPI creates the PyPI generator. The probe limit is fixed higher than
// for other domains: a wide probe builds the requirement pool the fake-out
// branch draws from.
func NewPyPI(client *Client, cfg model.GenerationConfig) *PyPI {
	return &PyPI{
		client:     client,
		sampler:    generate.NewSampler(cfg.FakeoutAttempts),
		probeLimit: 200,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Domain returns the benchmark domain name.
func (p *PyPI) Domain() string { return "pypi" }

type pypiMetadata struct {
	Info struct {
		PackageURL   string   `json:"package_url"`
		RequiresDist []string `json:"requires_dist"`
	} `json:"info"`
	Releases map[string][]struct {
		UploadTime string `json:"upload_time_iso_8601"`
	} `json:"releases"`
}

type pypiPackage struct {
	requirements []string
	sourceURL    string
	createdUTC   string
}

// Generate builds the requirement map by probing random packages, then
// samples balanced Yes/No questions from it. The uniqueness oracle is not
// consulted: the fact is checked directly against the package's metadata,
// which is authoritative.
func (p *PyPI) Generate(ctx context.Context, count int, sink generate.LogSink, _ generate.Verifier) ([]model.QARecord, error) {
	names, err := p.packageNames(ctx, sink)
	if err != nil {
		return nil, fmt.Errorf("fetch package index: %w", err)
	}
	if len(names) == 0 {
		return nil, errors.New("package index is empty")
	}

	p.rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})

	packages, pool, err := p.buildRequirementMap(ctx, names, sink)
	if err != nil {
		return nil, err
	}
	if len(packages) == 0 || len(pool) == 0 {
		return nil, errors.New("no probed package exposes requirements")
	}

	sink("built map with %d packages and %d unique requirements", len(packages), len(pool))

	withReqs := make([]string, 0, len(packages))
	for name := range packages {
		withReqs = append(withReqs, name)
	}

	var records []model.QARecord
	// Sampling can fail when the pool is degenerate; bound total attempts
	// so a small probe never loops forever.
	for attempts := 0; len(records) < count && attempts < count*10; attempts++ {
		name := withReqs[p.rng.Intn(len(withReqs))]
		pkg := packages[name]

		claim, ok := p.sampler.Sample(pkg.requirements, pool, name)
		if !ok {
			continue
		}

		sink("generating %q question for package %s (requirement %s)", claim.Answer, name, claim.Fact)

		question := fmt.Sprintf("According to its PyPI listing, does the package '%s' have a direct requirement for '%s'? Answer Yes or No.", name, claim.Fact)

		records = append(records, generate.AssembleRecord(
			"pypi",
			name,
			pkg.sourceURL,
			question,
			claim.Answer,
			map[string]interface{}{
				"package_name":       name,
				"question_type":      claim.Answer,
				"requirement_tested": claim.Fact,
				"created_utc":        pkg.createdUTC,
			},
		))
	}

	return records, nil
}

// packageNames fetches and parses the simple index. The index is a single
// huge HTML page of anchors; it is cached because re-downloading it for
// every run is wasteful.
func (p *PyPI) packageNames(ctx context.Context, sink generate.LogSink) ([]string, error) {
	sink("fetching the package list from %s", pypiSimpleURL)

	body, err := p.client.GetCached(ctx, pypiSimpleURL, nil, pypiIndexTTL)
	if err != nil {
		return nil, err
	}
	return parseSimpleIndex(body)
}

// parseSimpleIndex extracts package names from the simple index anchors.
// Each anchor's href has the form /simple/<name>/.
func parseSimpleIndex(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse index HTML: %w", err)
	}

	var names []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if name, ok := simplePackageName(attr.Val); ok {
					names = append(names, name)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return names, nil
}

func simplePackageName(href string) (string, bool) {
	trimmed := strings.TrimPrefix(href, "/simple/")
	if trimmed == href {
		return "", false
	}
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" || strings.Contains(trimmed, "/") {
		return "", false
	}
	return trimmed, true
}

// buildRequirementMap probes packages for metadata until the probe limit
// is reached. Packages without qualifying requirements are skipped.
func (p *PyPI) buildRequirementMap(ctx context.Context, names []string, sink generate.LogSink) (map[string]pypiPackage, []string, error) {
	packages := make(map[string]pypiPackage)
	seen := make(map[string]bool)
	var pool []string

	sink("probing random packages to build a requirement map")

	for i, name := range names {
		if i >= p.probeLimit {
			break
		}
		if (i+1)%pypiProbeDivide == 0 {
			sink("probed %d/%d packages", i+1, p.probeLimit)
			if err := worker.Sleep(ctx, time.Second); err != nil {
				return nil, nil, err
			}
		}

		metaURL := fmt.Sprintf("https://pypi.org/pypi/%s/json", url.PathEscape(name))
		var meta pypiMetadata
		if err := p.client.GetJSON(ctx, metaURL, nil, &meta); err != nil {
			continue
		}

		reqs := filterRequirements(meta.Info.RequiresDist)
		if len(reqs) == 0 {
			continue
		}

		packages[name] = pypiPackage{
			requirements: reqs,
			sourceURL:    meta.Info.PackageURL,
			createdUTC:   earliestUpload(meta),
		}
		for _, r := range reqs {
			if !seen[r] {
				seen[r] = true
				pool = append(pool, r)
			}
		}
	}

	return packages, pool, nil
}

// filterRequirements keeps plain versioned requirements. Entries with an
// environment marker (";") or without a version specifier are too
// ambiguous to anchor a Yes/No question on.
func filterRequirements(reqs []string) []string {
	var out []string
	for _, r := range reqs {
		if r == "" || strings.Contains(r, ";") {
			continue
		}
		if !strings.ContainsAny(r, "=<>") {
			continue
		}
		out = append(out, r)
	}
	return out
}

func earliestUpload(meta pypiMetadata) string {
	earliest := ""
	for _, files := range meta.Releases {
		for _, f := range files {
			if f.UploadTime == "" {
				continue
			}
			if earliest == "" || f.UploadTime < earliest {
				earliest = f.UploadTime
			}
		}
	}
	return earliest
}
