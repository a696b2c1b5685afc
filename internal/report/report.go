// Package report renders an audited portfolio as a JSON payload and a Markdown
// consolidation plan, and writes both to disk.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

const generatedAtLayout = "2006-01-02 15:04:05 UTC"

// ConsolidationTarget is a planned merge of several repositories into one.
type ConsolidationTarget struct {
	Target     string
	Sources    []string
	Highlights []string
}

// Document is everything a report needs.
type Document struct {
	Owner       string
	GeneratedAt time.Time
	Portfolio   *domain.Portfolio
	Targets     []ConsolidationTarget
}

func (d Document) generatedAt() string {
	return d.GeneratedAt.UTC().Format(generatedAtLayout)
}

type payload struct {
	Owner       string                  `json:"owner"`
	GeneratedAt string                  `json:"generated_at"`
	Repos       []repoEntry             `json:"repos"`
	Clusters    []clusterEntry          `json:"clusters"`
	Summary     domain.PortfolioSummary `json:"summary"`
}

type repoEntry struct {
	Name            string          `json:"name"`
	URL             string          `json:"url"`
	Description     string          `json:"description"`
	DefaultBranch   string          `json:"default_branch"`
	PrimaryLanguage string          `json:"primary_language"`
	IsArchived      bool            `json:"is_archived"`
	IsFork          bool            `json:"is_fork"`
	UpdatedAt       string          `json:"updated_at"`
	Theme           domain.Theme    `json:"theme"`
	RootItems       []string        `json:"root_items"`
	KeyDocs         map[string]bool `json:"key_docs"`
	MissingKeyDocs  []string        `json:"missing_key_docs"`
	FeatureBullets  []string        `json:"feature_bullets"`
}

type clusterEntry struct {
	Theme domain.Theme `json:"theme"`
	Label string       `json:"label"`
	Repos []string     `json:"repos"`
}

// RenderJSON returns the machine-readable report, indented and newline terminated.
func RenderJSON(doc Document) ([]byte, error) {
	p := payload{
		Owner:       doc.Owner,
		GeneratedAt: doc.generatedAt(),
		Repos:       make([]repoEntry, 0, len(doc.Portfolio.Records)),
		Clusters:    make([]clusterEntry, 0, len(doc.Portfolio.Clusters)),
		Summary:     doc.Portfolio.Summary,
	}
	for _, record := range doc.Portfolio.Records {
		p.Repos = append(p.Repos, newRepoEntry(record))
	}
	for _, cluster := range doc.Portfolio.Clusters {
		entry := clusterEntry{Theme: cluster.Theme, Label: cluster.Theme.DisplayName(), Repos: []string{}}
		for _, record := range cluster.Records {
			entry.Repos = append(entry.Repos, record.Repository.Name)
		}
		p.Clusters = append(p.Clusters, entry)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func newRepoEntry(record domain.AuditRecord) repoEntry {
	repo := record.Repository
	entry := repoEntry{
		Name:            repo.Name,
		URL:             repo.URL,
		Description:     repo.Description,
		DefaultBranch:   repo.DefaultBranch,
		PrimaryLanguage: repo.PrimaryLanguage,
		IsArchived:      repo.IsArchived,
		IsFork:          repo.IsFork,
		Theme:           record.Theme,
		RootItems:       append([]string{}, repo.RootEntries...),
		KeyDocs:         make(map[string]bool, len(domain.KeyDocs())),
		MissingKeyDocs:  []string{},
		FeatureBullets:  append([]string{}, record.FeatureBullets...),
	}
	if !repo.UpdatedAt.IsZero() {
		entry.UpdatedAt = repo.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, kind := range domain.KeyDocs() {
		entry.KeyDocs[string(kind)] = record.Governance.Has(kind)
	}
	for _, kind := range record.MissingDocs {
		entry.MissingKeyDocs = append(entry.MissingKeyDocs, string(kind))
	}
	return entry
}
