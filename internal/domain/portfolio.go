// Package domain contains the core data structures and domain logic for the application:
// feature extraction, theme classification, overlap grouping and audit record assembly.
package domain

import "time"

// DocKind names one of the governance artifacts every repository is expected to carry.
type DocKind string

const (
	DocReadme       DocKind = "README"
	DocLicense      DocKind = "LICENSE"
	DocChangelog    DocKind = "CHANGELOG"
	DocContributing DocKind = "CONTRIBUTING"
	DocSecurity     DocKind = "SECURITY"
	DocWorkflows    DocKind = "WORKFLOWS"
)

// KeyDocs returns the governance kinds in declaration order.
// Report columns and missing-document lists follow this order.
func KeyDocs() []DocKind {
	return []DocKind{DocReadme, DocLicense, DocChangelog, DocContributing, DocSecurity, DocWorkflows}
}

// GovernanceFlags maps each governance kind to whether the repository contains it.
// Kinds absent from the map are treated as missing.
type GovernanceFlags map[DocKind]bool

// Has reports whether the given kind is present.
func (g GovernanceFlags) Has(kind DocKind) bool {
	return g[kind]
}

// Missing returns the kinds whose flag is false, in KeyDocs order.
func (g GovernanceFlags) Missing() []DocKind {
	missing := []DocKind{}
	for _, kind := range KeyDocs() {
		if !g[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

func (g GovernanceFlags) clone() GovernanceFlags {
	snapshot := make(GovernanceFlags, len(KeyDocs()))
	for _, kind := range KeyDocs() {
		snapshot[kind] = g[kind]
	}
	return snapshot
}

// RepositoryMetadata is the raw per-repository input delivered by the data provider.
type RepositoryMetadata struct {
	Name            string
	URL             string
	Description     string
	DefaultBranch   string
	PrimaryLanguage string
	IsArchived      bool
	IsFork          bool
	UpdatedAt       time.Time
	RootEntries     []string
	Readme          string
}

// AuditRecord is the analysis result for a single repository.
// Records are built once per audit run by NewAuditRecord and never modified afterwards.
// Treat a record and its slices and maps as read-only. Cluster members are
// separate copies of the records they were grouped from.
type AuditRecord struct {
	Repository     RepositoryMetadata
	Theme          Theme
	FeatureBullets []string
	Governance     GovernanceFlags
	MissingDocs    []DocKind
}

// Active reports whether the repository is not archived.
func (r AuditRecord) Active() bool {
	return !r.Repository.IsArchived
}

// Core reports whether the repository is active and not a fork.
func (r AuditRecord) Core() bool {
	return r.Active() && !r.Repository.IsFork
}

// OverlapCluster groups the core repositories that share a theme.
type OverlapCluster struct {
	Theme   Theme
	Records []AuditRecord
}

// PortfolioSummary holds the portfolio-wide aggregates computed after every record is built.
type PortfolioSummary struct {
	ActiveCount           int     `json:"active_count"`
	CoreCount             int     `json:"core_count"`
	ForkCount             int     `json:"fork_count"`
	CoreMissingDocsCount  int     `json:"core_missing_docs_count"`
	MedianDaysSinceUpdate float64 `json:"median_days_since_update"`
	MeanFeatureBullets    float64 `json:"mean_feature_bullets"`
}

// Portfolio is the complete output of one audit run.
type Portfolio struct {
	Records  []AuditRecord
	Clusters []OverlapCluster
	Summary  PortfolioSummary
}
