package domain

import (
	"time"

	"github.com/montanaflynn/stats"
)

// NewAuditRecord combines one repository's metadata, governance flags and analysis results.
// Slices and maps are copied so the record does not alias caller-owned data.
func NewAuditRecord(repo RepositoryMetadata, governance GovernanceFlags, theme Theme, bullets []string) AuditRecord {
	repo.RootEntries = append([]string(nil), repo.RootEntries...)
	snapshot := governance.clone()
	return AuditRecord{
		Repository:     repo,
		Theme:          theme,
		FeatureBullets: append([]string{}, bullets...),
		Governance:     snapshot,
		MissingDocs:    snapshot.Missing(),
	}
}

// Summarize reduces the completed record set into portfolio-wide aggregates.
// Forks are counted among active repositories only.
func Summarize(records []AuditRecord, now time.Time) PortfolioSummary {
	var summary PortfolioSummary
	var staleness, bulletCounts stats.Float64Data
	for _, record := range records {
		if !record.Active() {
			continue
		}
		summary.ActiveCount++
		if !record.Repository.UpdatedAt.IsZero() {
			staleness = append(staleness, now.Sub(record.Repository.UpdatedAt).Hours()/24)
		}
		if record.Repository.IsFork {
			summary.ForkCount++
			continue
		}
		summary.CoreCount++
		bulletCounts = append(bulletCounts, float64(len(record.FeatureBullets)))
		if len(record.MissingDocs) > 0 {
			summary.CoreMissingDocsCount++
		}
	}

	// stats returns EmptyInputErr for empty data; the zero value is the right answer there.
	if median, err := stats.Median(staleness); err == nil {
		summary.MedianDaysSinceUpdate, _ = stats.Round(median, 1)
	}
	if mean, err := stats.Mean(bulletCounts); err == nil {
		summary.MeanFeatureBullets, _ = stats.Round(mean, 2)
	}
	return summary
}

// Analyzer runs feature extraction and classification for single repositories.
// It holds no mutable state and may be shared across goroutines.
type Analyzer struct {
	classifier   *Classifier
	featureLimit int
}

// NewAnalyzer returns an Analyzer. A non-positive limit falls back to DefaultFeatureLimit.
func NewAnalyzer(classifier *Classifier, featureLimit int) *Analyzer {
	if featureLimit <= 0 {
		featureLimit = DefaultFeatureLimit
	}
	return &Analyzer{classifier: classifier, featureLimit: featureLimit}
}

// Analyze builds the audit record for one repository.
func (a *Analyzer) Analyze(repo RepositoryMetadata, governance GovernanceFlags) AuditRecord {
	bullets := ExtractFeatureBullets(repo.Readme, a.featureLimit)
	theme := a.classifier.Classify(repo.Name, repo.Description, repo.Readme)
	return NewAuditRecord(repo, governance, theme, bullets)
}

// Assemble runs the portfolio-level steps over completed records.
// It must only be called once every per-repository analysis has finished.
func Assemble(records []AuditRecord, now time.Time) Portfolio {
	return Portfolio{
		Records:  records,
		Clusters: GroupOverlaps(records),
		Summary:  Summarize(records, now),
	}
}
