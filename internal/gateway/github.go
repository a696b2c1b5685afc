// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

// maxPageSize is the largest page the GitHub GraphQL API accepts for connections.
const maxPageSize = 100

// Fetcher is the data provider the audit runs against: repository listings,
// directory entries and README text for a single owner.
type Fetcher interface {
	ListRepositories(ctx context.Context, owner string, limit int) ([]domain.RepositoryMetadata, error)
	FetchDirectory(ctx context.Context, owner, repo, path string) ([]string, error)
	FetchReadme(ctx context.Context, owner, repo string) (string, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// repositoryListQuery mirrors the fields `gh repo list --json` exposes.
type repositoryListQuery struct {
	RepositoryOwner struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name            string
				URL             string `graphql:"url"`
				Description     string
				IsArchived      bool
				IsFork          bool
				UpdatedAt       githubv4.DateTime
				PrimaryLanguage *struct {
					Name string
				}
				DefaultBranchRef *struct {
					Name string
				}
			}
		} `graphql:"repositories(first: $first, after: $cursor, ownerAffiliations: [OWNER], orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"repositoryOwner(login: $owner)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *zap.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// ListRepositories returns up to limit repositories owned by owner, most recently updated first.
// A limit of zero or less lists every repository.
// Root entries and README text are left empty; they are fetched per repository.
func (g *GitHubGateway) ListRepositories(ctx context.Context, owner string, limit int) ([]domain.RepositoryMetadata, error) {
	g.logger.Info("listing repositories", zap.String("owner", owner), zap.Int("limit", limit))
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"first":  githubv4.Int(pageSize(limit)),
		"cursor": (*githubv4.String)(nil),
	}

	repos := []domain.RepositoryMetadata{}
	for limit <= 0 || len(repos) < limit {
		var q repositoryListQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		for _, node := range q.RepositoryOwner.Repositories.Nodes {
			if limit > 0 && len(repos) == limit {
				break
			}
			repo := domain.RepositoryMetadata{
				Name:        node.Name,
				URL:         node.URL,
				Description: node.Description,
				IsArchived:  node.IsArchived,
				IsFork:      node.IsFork,
				UpdatedAt:   node.UpdatedAt.Time,
			}
			if node.PrimaryLanguage != nil {
				repo.PrimaryLanguage = node.PrimaryLanguage.Name
			}
			if node.DefaultBranchRef != nil {
				repo.DefaultBranch = node.DefaultBranchRef.Name
			}
			repos = append(repos, repo)
		}
		if !q.RepositoryOwner.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.RepositoryOwner.Repositories.PageInfo.EndCursor)
		variables["first"] = githubv4.Int(pageSize(limit - len(repos)))
		g.logger.Debug("fetching next page of repositories", zap.Int("fetched", len(repos)))
	}
	g.logger.Info("completed listing repositories", zap.String("owner", owner), zap.Int("count", len(repos)))
	return repos, nil
}

// FetchDirectory returns the sorted entry names of a directory. The empty path is the repository root.
// A missing directory yields no entries rather than an error.
func (g *GitHubGateway) FetchDirectory(ctx context.Context, owner, repo, path string) ([]string, error) {
	_, entries, resp, err := g.restClient.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if isNotFound(resp, err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list contents of %s/%s/%s: %w", owner, repo, path, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := entry.GetName(); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// FetchReadme returns the raw README text, or the empty string when the repository has none.
func (g *GitHubGateway) FetchReadme(ctx context.Context, owner, repo string) (string, error) {
	readme, resp, err := g.restClient.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if isNotFound(resp, err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to fetch README of %s/%s: %w", owner, repo, err)
	}
	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode README of %s/%s: %w", owner, repo, err)
	}
	return content, nil
}

func pageSize(remaining int) int {
	if remaining > maxPageSize || remaining <= 0 {
		return maxPageSize
	}
	return remaining
}

func isNotFound(resp *github.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var errResp *github.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
}
