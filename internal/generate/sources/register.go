package sources

import (
	"github.com/ppiankov/anchorbench/internal/extract"
	"github.com/ppiankov/anchorbench/internal/generate"
	"github.com/ppiankov/anchorbench/internal/model"
)

// Deps are the collaborators shared across generators. APIClient talks to
// published APIs (GitHub, PyPI) and skips the robots.txt gate; WebClient
// scrapes content hosts (Reddit, Wikipedia) and is robots-checked.
type Deps struct {
	APIClient *Client
	WebClient *Client
	Words     *extract.WordListLoader
}

// RegisterAll registers every built-in generator. Registration is explicit
// and static; adding a domain means adding a constructor call here.
func RegisterAll(registry *generate.Registry, deps Deps, cfg model.GenerationConfig) error {
	generators := []generate.Generator{
		NewGitHub(deps.APIClient, cfg),
		NewGitHubPopular(deps.APIClient, cfg),
		NewPyPI(deps.APIClient, cfg),
		NewReddit(deps.WebClient, deps.Words, cfg),
		NewWikipedia(deps.WebClient, deps.Words, cfg),
	}
	for _, g := range generators {
		if err := registry.Register(g); err != nil {
			return err
		}
	}
	return nil
}
