package sources

import (
	"fmt"

	"github.com/ppiankov/anchorbench/internal/extract"
	"github.com/ppiankov/anchorbench/internal/model"
)

// NewGitHubPopular creates the popular-repository generator. Popular repo
// content is likely in model training data, so the uniqueness query pins
// the value to the repository name and the candidate filters are stricter
// (longer identifiers, no URL values).
func NewGitHubPopular(client *Client, cfg model.GenerationConfig) *GitHub {
	profile := githubProfile{
		domain:       "github_popular",
		searchQuery:  "stars:>5000 pushed:>2023-01-01 language:python language:javascript language:ruby language:go language:php",
		sortOptions:  []string{"updated"},
		order:        "desc",
		branches:     []string{"main", "master", "dev"},
		filesPerRepo: 5,
		skipSuffixes: []string{".md", ".png", ".lock", ".json"},
		skipTests:    true,
		rules:        extract.PopularAssignmentRules(),
		verifyText: func(value, repoName string) string {
			return fmt.Sprintf("%q %q", value, repoName)
		},
		question: func(repoName, sourceURL, identifier string) string {
			return fmt.Sprintf("In the popular GitHub repository '%s', what is the value of the variable named `%s` found in the file at %s?", repoName, identifier, sourceURL)
		},
	}
	return newGitHub(client, cfg, profile)
}
