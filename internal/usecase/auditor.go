// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
	"github.com/naka-gawa/repo-portfolio-audit/internal/gateway"
)

const (
	// DefaultConcurrency bounds the number of repositories inspected at the same time.
	DefaultConcurrency = 4
	// DefaultRepositoryLimit caps the listing when no limit is configured.
	DefaultRepositoryLimit = 100
)

// Options tunes an audit run.
type Options struct {
	RepositoryLimit int
	Concurrency     int
	// Now is used for staleness statistics; defaults to time.Now.
	Now func() time.Time
}

// Auditor is the use case for auditing a repository portfolio.
// It fetches every repository through the gateway, analyses each one independently
// and assembles the portfolio once all of them are done.
type Auditor struct {
	fetcher  gateway.Fetcher
	analyzer *domain.Analyzer
	logger   *zap.Logger
	options  Options
}

// NewAuditor creates a new Auditor instance.
func NewAuditor(fetcher gateway.Fetcher, analyzer *domain.Analyzer, logger *zap.Logger, options Options) *Auditor {
	if options.RepositoryLimit <= 0 {
		options.RepositoryLimit = DefaultRepositoryLimit
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Auditor{
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   logger,
		options:  options,
	}
}

// Audit lists the owner's repositories and returns the analysed portfolio.
// Listing failures abort the run; per-repository fetch failures degrade to empty data.
func (a *Auditor) Audit(ctx context.Context, owner string) (*domain.Portfolio, error) {
	a.logger.Info("starting portfolio audit", zap.String("owner", owner))

	repos, err := a.fetcher.ListRepositories(ctx, owner, a.options.RepositoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", owner, err)
	}

	records := make([]domain.AuditRecord, len(repos))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.options.Concurrency)
	for i, repo := range repos {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			records[i] = a.inspect(egCtx, owner, repo)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	// Fetch failures caused by cancellation degrade to empty data in inspect.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.logger.Info("all repositories inspected", zap.Int("count", len(records)))

	portfolio := domain.Assemble(records, a.options.Now())
	a.logger.Info("portfolio audit complete",
		zap.Int("active", portfolio.Summary.ActiveCount),
		zap.Int("core", portfolio.Summary.CoreCount),
		zap.Int("forks", portfolio.Summary.ForkCount),
		zap.Int("clusters", len(portfolio.Clusters)),
	)
	return &portfolio, nil
}

// inspect fills in root entries and README text, derives governance flags and analyses the repository.
func (a *Auditor) inspect(ctx context.Context, owner string, repo domain.RepositoryMetadata) domain.AuditRecord {
	logger := a.logger.With(zap.String("owner", owner), zap.String("repository", repo.Name))

	rootEntries, err := a.fetcher.FetchDirectory(ctx, owner, repo.Name, "")
	if err != nil {
		logger.Warn("root listing unavailable, treating repository as empty", zap.Error(err))
		rootEntries = nil
	}
	repo.RootEntries = rootEntries

	readme, err := a.fetcher.FetchReadme(ctx, owner, repo.Name)
	if err != nil {
		logger.Warn("README unavailable, continuing without it", zap.Error(err))
		readme = ""
	}
	repo.Readme = readme

	var githubEntries []string
	if gateway.HasGitHubDirectory(rootEntries) {
		githubEntries, err = a.fetcher.FetchDirectory(ctx, owner, repo.Name, gateway.GitHubDirectory)
		if err != nil {
			logger.Warn(".github listing unavailable, assuming no workflows", zap.Error(err))
			githubEntries = nil
		}
	}

	record := a.analyzer.Analyze(repo, gateway.DetectGovernance(rootEntries, githubEntries))
	logger.Debug("repository analysed",
		zap.String("theme", string(record.Theme)),
		zap.Int("feature_bullets", len(record.FeatureBullets)),
		zap.Int("missing_docs", len(record.MissingDocs)),
	)
	return record
}
