package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceTime = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func allDocs() GovernanceFlags {
	flags := GovernanceFlags{}
	for _, kind := range KeyDocs() {
		flags[kind] = true
	}
	return flags
}

func record(name string, theme Theme, archived, fork bool) AuditRecord {
	return NewAuditRecord(RepositoryMetadata{Name: name, IsArchived: archived, IsFork: fork}, allDocs(), theme, nil)
}

func TestNewAuditRecord_MissingDocsFollowDeclarationOrder(t *testing.T) {
	flags := GovernanceFlags{
		DocReadme:    true,
		DocLicense:   true,
		DocWorkflows: false,
	}
	rec := NewAuditRecord(RepositoryMetadata{Name: "repo"}, flags, ThemeGeneral, []string{"a"})

	assert.Equal(t, []DocKind{DocChangelog, DocContributing, DocSecurity, DocWorkflows}, rec.MissingDocs)
	assert.Len(t, rec.Governance, len(KeyDocs()))
	assert.False(t, rec.Governance.Has(DocSecurity))
}

func TestNewAuditRecord_DoesNotAliasInputs(t *testing.T) {
	flags := allDocs()
	bullets := []string{"one"}
	entries := []string{"README.md"}
	rec := NewAuditRecord(RepositoryMetadata{Name: "repo", RootEntries: entries}, flags, ThemeGeneral, bullets)

	flags[DocLicense] = false
	bullets[0] = "changed"
	entries[0] = "changed"

	assert.True(t, rec.Governance.Has(DocLicense))
	assert.Empty(t, rec.MissingDocs)
	assert.Equal(t, []string{"one"}, rec.FeatureBullets)
	assert.Equal(t, []string{"README.md"}, rec.Repository.RootEntries)
}

func TestAnalyzer_Analyze(t *testing.T) {
	classifier, err := NewClassifier(DefaultThemeOverrides())
	require.NoError(t, err)
	analyzer := NewAnalyzer(classifier, 1)

	rec := analyzer.Analyze(RepositoryMetadata{
		Name:        "widget-tools",
		Description: "a CLI tool for automation",
		Readme:      "## Features\n- First\n- Second",
	}, GovernanceFlags{DocReadme: true})

	assert.Equal(t, ThemeAgentTooling, rec.Theme)
	assert.Equal(t, []string{"First"}, rec.FeatureBullets)
	assert.Equal(t, []DocKind{DocLicense, DocChangelog, DocContributing, DocSecurity, DocWorkflows}, rec.MissingDocs)
}

func TestGroupOverlaps(t *testing.T) {
	records := []AuditRecord{
		record("zeta", ThemeAgentTooling, false, false),
		record("Alpha", ThemeAgentTooling, false, false),
		record("beta", ThemeAgentTooling, false, false),
		record("forked", ThemeAgentTooling, false, true),
		record("old", ThemeAgentTooling, true, false),
		record("lonely", ThemeCodexFramework, false, false),
		record("codex-fork", ThemeCodexFramework, false, true),
		record("misc-b", ThemeGeneral, false, false),
		record("misc-a", ThemeGeneral, false, false),
		record("eeg-1", ThemeEEGNeurofeedback, false, false),
		record("EEG-0", ThemeEEGNeurofeedback, false, false),
	}

	clusters := GroupOverlaps(records)

	require.Len(t, clusters, 3)
	assert.Equal(t, ThemeEEGNeurofeedback, clusters[0].Theme)
	assert.Equal(t, []string{"EEG-0", "eeg-1"}, clusterNames(clusters[0]))
	assert.Equal(t, ThemeAgentTooling, clusters[1].Theme)
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, clusterNames(clusters[1]))
	assert.Equal(t, ThemeGeneral, clusters[2].Theme)
	assert.Equal(t, []string{"misc-a", "misc-b"}, clusterNames(clusters[2]))
}

func TestGroupOverlaps_MembershipMatchesQualifyingRecords(t *testing.T) {
	records := []AuditRecord{
		record("a", ThemeMemoryIntelligence, false, false),
		record("b", ThemeMemoryIntelligence, false, false),
		record("c", ThemeMemoryIntelligence, true, true),
		record("d", ThemeCodexFramework, false, false),
	}

	seen := map[string]int{}
	for _, cluster := range GroupOverlaps(records) {
		for _, member := range cluster.Records {
			assert.Equal(t, cluster.Theme, member.Theme)
			assert.True(t, member.Core())
			seen[member.Repository.Name]++
		}
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, seen)
}

func TestGroupOverlaps_Empty(t *testing.T) {
	assert.Empty(t, GroupOverlaps(nil))
	assert.Empty(t, GroupOverlaps([]AuditRecord{record("solo", ThemeGeneral, false, false)}))
}

func TestSummarize(t *testing.T) {
	days := func(n int) time.Time { return referenceTime.Add(-time.Duration(n) * 24 * time.Hour) }
	records := []AuditRecord{
		NewAuditRecord(RepositoryMetadata{Name: "core-missing", UpdatedAt: days(10)}, GovernanceFlags{DocReadme: true}, ThemeGeneral, []string{"a", "b"}),
		NewAuditRecord(RepositoryMetadata{Name: "core-complete", UpdatedAt: days(20)}, allDocs(), ThemeGeneral, nil),
		NewAuditRecord(RepositoryMetadata{Name: "fork", IsFork: true, UpdatedAt: days(30)}, GovernanceFlags{}, ThemeGeneral, nil),
		NewAuditRecord(RepositoryMetadata{Name: "archived", IsArchived: true, UpdatedAt: days(400)}, GovernanceFlags{}, ThemeGeneral, nil),
		NewAuditRecord(RepositoryMetadata{Name: "archived-fork", IsArchived: true, IsFork: true}, GovernanceFlags{}, ThemeGeneral, nil),
	}

	summary := Summarize(records, referenceTime)

	assert.Equal(t, PortfolioSummary{
		ActiveCount:           3,
		CoreCount:             2,
		ForkCount:             1,
		CoreMissingDocsCount:  1,
		MedianDaysSinceUpdate: 20,
		MeanFeatureBullets:    1,
	}, summary)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, PortfolioSummary{}, Summarize(nil, referenceTime))
}

func TestAssemble(t *testing.T) {
	records := []AuditRecord{
		record("b", ThemeAgentTooling, false, false),
		record("a", ThemeAgentTooling, false, false),
	}

	portfolio := Assemble(records, referenceTime)

	assert.Equal(t, "b", portfolio.Records[0].Repository.Name, "records keep input order")
	require.Len(t, portfolio.Clusters, 1)
	assert.Equal(t, []string{"a", "b"}, clusterNames(portfolio.Clusters[0]))
	assert.Equal(t, 2, portfolio.Summary.CoreCount)
}

func TestAssemble_ClustersDoNotAliasRecords(t *testing.T) {
	records := []AuditRecord{
		NewAuditRecord(RepositoryMetadata{Name: "a", RootEntries: []string{"README.md"}}, allDocs(), ThemeAgentTooling, []string{"one"}),
		NewAuditRecord(RepositoryMetadata{Name: "b"}, allDocs(), ThemeAgentTooling, []string{"two"}),
	}

	portfolio := Assemble(records, referenceTime)
	require.Len(t, portfolio.Clusters, 1)

	portfolio.Records[0].FeatureBullets[0] = "changed"
	portfolio.Records[0].Governance[DocLicense] = false
	portfolio.Records[0].Repository.RootEntries[0] = "changed"

	member := portfolio.Clusters[0].Records[0]
	assert.Equal(t, "a", member.Repository.Name)
	assert.Equal(t, []string{"one"}, member.FeatureBullets)
	assert.True(t, member.Governance.Has(DocLicense))
	assert.Equal(t, []string{"README.md"}, member.Repository.RootEntries)
}

func clusterNames(cluster OverlapCluster) []string {
	names := make([]string, 0, len(cluster.Records))
	for _, rec := range cluster.Records {
		names = append(names, rec.Repository.Name)
	}
	return names
}
