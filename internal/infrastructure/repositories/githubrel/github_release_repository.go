package githubrel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/autorelease/internal/domain/repositories"
)

// GitHubReleaseRepository implements repositories.ReleaseRepository against
// the GitHub releases API.
type GitHubReleaseRepository struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewGitHubReleaseRepository creates a release client for "owner/name" with
// the given token.
func NewGitHubReleaseRepository(slug, token string) (repositories.ReleaseRepository, error) {
	owner, repo, found := strings.Cut(slug, "/")
	if !found || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository slug %q, expected owner/name", slug)
	}

	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubReleaseRepository{client: client, owner: owner, repo: repo}, nil
}

func (it *GitHubReleaseRepository) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	_, response, err := it.client.Repositories.GetReleaseByTag(ctx, it.owner, it.repo, tag)
	if err == nil {
		return true, nil
	}
	if response != nil && response.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return false, fmt.Errorf("failed to query release for tag %q: %w", tag, err)
}

func (it *GitHubReleaseRepository) CreateRelease(ctx context.Context, tag, title, body string) error {
	release := &gh.RepositoryRelease{
		TagName: gh.String(tag),
		Name:    gh.String(title),
		Body:    gh.String(body),
	}
	if _, _, err := it.client.Repositories.CreateRelease(ctx, it.owner, it.repo, release); err != nil {
		return fmt.Errorf("failed to create release for tag %q: %w", tag, err)
	}
	return nil
}
