package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

var generatedAt = time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

func fullDocs() domain.GovernanceFlags {
	flags := domain.GovernanceFlags{}
	for _, kind := range domain.KeyDocs() {
		flags[kind] = true
	}
	return flags
}

func fixtureDocument() Document {
	updated := time.Date(2026, 4, 30, 12, 0, 0, 0, time.UTC)
	records := []domain.AuditRecord{
		domain.NewAuditRecord(domain.RepositoryMetadata{
			Name: "retain", URL: "https://github.com/acme/retain", PrimaryLanguage: "Go", UpdatedAt: updated,
			RootEntries: []string{"README.md"},
		}, domain.GovernanceFlags{domain.DocReadme: true}, domain.ThemeMemoryIntelligence,
			[]string{"One", "Two", "Three", "Four", "Five"}),
		domain.NewAuditRecord(domain.RepositoryMetadata{Name: "Mem-Layer", UpdatedAt: updated},
			fullDocs(), domain.ThemeMemoryIntelligence, nil),
		domain.NewAuditRecord(domain.RepositoryMetadata{Name: "gemini-cli", IsFork: true},
			domain.GovernanceFlags{}, domain.ThemeAgentTooling, nil),
		domain.NewAuditRecord(domain.RepositoryMetadata{Name: "attic", IsArchived: true},
			domain.GovernanceFlags{}, domain.ThemeGeneral, nil),
	}
	portfolio := domain.Assemble(records, generatedAt)
	return Document{
		Owner:       "acme",
		GeneratedAt: generatedAt,
		Portfolio:   &portfolio,
		Targets: []ConsolidationTarget{{
			Target:     "memory-intelligence",
			Sources:    []string{"mem-layer", "retain"},
			Highlights: []string{"Persistent memory scopes", "Conversation sync"},
		}},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(fixtureDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))

	var decoded struct {
		Owner       string `json:"owner"`
		GeneratedAt string `json:"generated_at"`
		Repos       []struct {
			Name           string          `json:"name"`
			UpdatedAt      string          `json:"updated_at"`
			Theme          string          `json:"theme"`
			RootItems      []string        `json:"root_items"`
			KeyDocs        map[string]bool `json:"key_docs"`
			MissingKeyDocs []string        `json:"missing_key_docs"`
			FeatureBullets []string        `json:"feature_bullets"`
		} `json:"repos"`
		Clusters []struct {
			Theme string   `json:"theme"`
			Label string   `json:"label"`
			Repos []string `json:"repos"`
		} `json:"clusters"`
		Summary domain.PortfolioSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "acme", decoded.Owner)
	assert.Equal(t, "2026-05-04 03:02:01 UTC", decoded.GeneratedAt)
	require.Len(t, decoded.Repos, 4)
	assert.Equal(t, "retain", decoded.Repos[0].Name)
	assert.Equal(t, "2026-04-30T12:00:00Z", decoded.Repos[0].UpdatedAt)
	assert.Equal(t, "memory_intelligence", decoded.Repos[0].Theme)
	assert.Equal(t, []string{"README.md"}, decoded.Repos[0].RootItems)
	assert.Len(t, decoded.Repos[0].KeyDocs, 6)
	assert.Equal(t, []string{"LICENSE", "CHANGELOG", "CONTRIBUTING", "SECURITY", "WORKFLOWS"}, decoded.Repos[0].MissingKeyDocs)
	assert.Equal(t, "", decoded.Repos[2].UpdatedAt)
	assert.Equal(t, []string{}, decoded.Repos[2].RootItems)
	assert.Equal(t, []string{}, decoded.Repos[1].MissingKeyDocs)

	require.Len(t, decoded.Clusters, 1)
	assert.Equal(t, "Memory + Knowledge Systems", decoded.Clusters[0].Label)
	assert.Equal(t, []string{"Mem-Layer", "retain"}, decoded.Clusters[0].Repos)
	assert.Equal(t, 3, decoded.Summary.ActiveCount)
	assert.Equal(t, 1, decoded.Summary.CoreMissingDocsCount)
}

func TestRenderMarkdown(t *testing.T) {
	markdown := RenderMarkdown(fixtureDocument())

	expectedFragments := []string{
		"# Portfolio Audit and Consolidation Plan\n",
		"- **Owner**: `acme`\n",
		"- **Generated**: 2026-05-04 03:02:01 UTC\n",
		"- **Active repos scanned**: 3 (2 core + 1 forks)\n",
		"- **Core repos missing at least one key governance doc**: 1/2\n",
		"| Repo | Type | Primary Lang | Theme | Updated |\n| --- | --- | --- | --- | --- |\n" +
			"| Mem-Layer | Core | - | Memory + Knowledge Systems | 2026-04-30 |\n" +
			"| retain | Core | Go | Memory + Knowledge Systems | 2026-04-30 |\n" +
			"| gemini-cli | Fork | - | Agent Tooling + Interface Layer | - |\n",
		"| Repo | README | LICENSE | CHANGELOG | CONTRIBUTING | SECURITY | WORKFLOWS | Missing |\n",
		"| Mem-Layer | Yes | Yes | Yes | Yes | Yes | Yes | None |\n",
		"| retain | Yes | No | No | No | No | No | LICENSE, CHANGELOG, CONTRIBUTING, SECURITY, WORKFLOWS |\n",
		"### Memory + Knowledge Systems\nPotential overlap detected across **2 repos**: `Mem-Layer`, `retain`.\n",
		"- **Mem-Layer**\n  - No feature bullets found in README; review manually.\n- **retain**\n  - One\n  - Two\n  - Three\n  - Four\n\n",
		"| `memory-intelligence` | mem-layer + retain | - Persistent memory scopes<br>- Conversation sync |\n",
		"1. Create or designate the 1 target repos listed above.\n",
	}
	for _, fragment := range expectedFragments {
		assert.Contains(t, markdown, fragment)
	}
	assert.NotContains(t, markdown, "attic")
	assert.NotContains(t, markdown, "Five")
	assert.True(t, strings.HasSuffix(markdown, "prevent new fragmentation.\n"))
}

func TestRenderMarkdown_NoClustersNoTargets(t *testing.T) {
	portfolio := domain.Assemble(nil, generatedAt)
	markdown := RenderMarkdown(Document{Owner: "acme", GeneratedAt: generatedAt, Portfolio: &portfolio})

	assert.Contains(t, markdown, "No overlap clusters with 2+ core repos were detected.\n")
	assert.Contains(t, markdown, "No consolidation targets configured.\n")
	assert.Contains(t, markdown, "1. Decide which overlap clusters to merge and record them as consolidation targets.\n")
	assert.NotContains(t, markdown, "the 0 target repos")
	assert.Contains(t, markdown, "- **Active repos scanned**: 0 (0 core + 0 forks)\n")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")

	paths, err := WriteFiles(dir, fixtureDocument())

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, JSONFileName), filepath.Join(dir, MarkdownFileName)}, paths)
	for _, path := range paths {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.Positive(t, info.Size())
	}
}

func TestWriteTo(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteTo(&buf, fixtureDocument()))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "{\n"))
	assert.Contains(t, output, "}\n\n# Portfolio Audit and Consolidation Plan\n")
}
