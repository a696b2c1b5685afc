package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

// maxClusterBullets caps how many feature bullets each cluster member lists.
const maxClusterBullets = 4

// RenderMarkdown returns the human-readable consolidation plan.
func RenderMarkdown(doc Document) string {
	var active, core []domain.AuditRecord
	for _, record := range doc.Portfolio.Records {
		if record.Active() {
			active = append(active, record)
		}
		if record.Core() {
			core = append(core, record)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Repository.IsFork != active[j].Repository.IsFork {
			return !active[i].Repository.IsFork
		}
		return strings.ToLower(active[i].Repository.Name) < strings.ToLower(active[j].Repository.Name)
	})
	sortByName(core)

	summary := doc.Portfolio.Summary
	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	add("# Portfolio Audit and Consolidation Plan", "")
	add(fmt.Sprintf("- **Owner**: `%s`", doc.Owner))
	add(fmt.Sprintf("- **Generated**: %s", doc.generatedAt()))
	add(fmt.Sprintf("- **Active repos scanned**: %d (%d core + %d forks)", summary.ActiveCount, summary.CoreCount, summary.ForkCount))
	add(fmt.Sprintf("- **Core repos missing at least one key governance doc**: %d/%d", summary.CoreMissingDocsCount, summary.CoreCount))
	add(fmt.Sprintf("- **Median days since last update**: %.1f", summary.MedianDaysSinceUpdate))
	add(fmt.Sprintf("- **Mean feature bullets per core repo**: %.2f", summary.MeanFeatureBullets))
	add("")

	add("## 1) Active Repository Inventory", "")
	add(markdownTable([]string{"Repo", "Type", "Primary Lang", "Theme", "Updated"}, inventoryRows(active)), "")

	add("## 2) Key File and Governance Coverage (Core Repos)", "")
	headers := []string{"Repo"}
	for _, kind := range domain.KeyDocs() {
		headers = append(headers, string(kind))
	}
	headers = append(headers, "Missing")
	add(markdownTable(headers, governanceRows(core)), "")

	add("## 3) Redundancy and Overlap Clusters", "")
	if len(doc.Portfolio.Clusters) == 0 {
		add("No overlap clusters with 2+ core repos were detected.", "")
	}
	for _, cluster := range doc.Portfolio.Clusters {
		add(clusterSection(cluster)...)
	}

	add("## 4) Consolidation Targets (Robust Repo Set)", "")
	if len(doc.Targets) == 0 {
		add("No consolidation targets configured.", "")
	} else {
		add(markdownTable([]string{"Target Repo", "Source Repos to Merge", "Best Features to Preserve"}, targetRows(doc.Targets)), "")
	}

	add("## 5) Action Sequence", "")
	if len(doc.Targets) == 0 {
		add("1. Decide which overlap clusters to merge and record them as consolidation targets.")
	} else {
		add(fmt.Sprintf("1. Create or designate the %d target repos listed above.", len(doc.Targets)))
	}
	add("2. Move feature-complete code first (do not start with docs-only migration).")
	add("3. Add missing governance docs in every core repo: `CHANGELOG`, `CONTRIBUTING`, `SECURITY`, CI workflows.")
	add("4. Mark old overlapping repos as `legacy-*` or archive after migration checkpoints.")
	add("5. Keep this audit in CI (weekly) to prevent new fragmentation.")

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

func sortByName(records []domain.AuditRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Repository.Name) < strings.ToLower(records[j].Repository.Name)
	})
}

func inventoryRows(records []domain.AuditRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		repo := record.Repository
		kind := "Core"
		if repo.IsFork {
			kind = "Fork"
		}
		updated := "-"
		if !repo.UpdatedAt.IsZero() {
			updated = repo.UpdatedAt.UTC().Format("2006-01-02")
		}
		rows = append(rows, []string{repo.Name, kind, orDash(repo.PrimaryLanguage), record.Theme.DisplayName(), updated})
	}
	return rows
}

func governanceRows(records []domain.AuditRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		row := []string{record.Repository.Name}
		for _, kind := range domain.KeyDocs() {
			row = append(row, yesNo(record.Governance.Has(kind)))
		}
		missing := "None"
		if len(record.MissingDocs) > 0 {
			names := make([]string, 0, len(record.MissingDocs))
			for _, kind := range record.MissingDocs {
				names = append(names, string(kind))
			}
			missing = strings.Join(names, ", ")
		}
		rows = append(rows, append(row, missing))
	}
	return rows
}

func clusterSection(cluster domain.OverlapCluster) []string {
	names := make([]string, 0, len(cluster.Records))
	for _, record := range cluster.Records {
		names = append(names, "`"+record.Repository.Name+"`")
	}
	lines := []string{
		"### " + cluster.Theme.DisplayName(),
		fmt.Sprintf("Potential overlap detected across **%d repos**: %s.", len(cluster.Records), strings.Join(names, ", ")),
		"",
		"Best currently-shipped features to preserve:",
		"",
	}
	for _, record := range cluster.Records {
		lines = append(lines, fmt.Sprintf("- **%s**", record.Repository.Name))
		if len(record.FeatureBullets) == 0 {
			lines = append(lines, "  - No feature bullets found in README; review manually.")
			continue
		}
		bullets := record.FeatureBullets
		if len(bullets) > maxClusterBullets {
			bullets = bullets[:maxClusterBullets]
		}
		for _, bullet := range bullets {
			lines = append(lines, "  - "+bullet)
		}
	}
	return append(lines, "")
}

func targetRows(targets []ConsolidationTarget) [][]string {
	rows := make([][]string, 0, len(targets))
	for _, target := range targets {
		highlights := make([]string, 0, len(target.Highlights))
		for _, highlight := range target.Highlights {
			highlights = append(highlights, "- "+highlight)
		}
		rows = append(rows, []string{
			"`" + target.Target + "`",
			strings.Join(target.Sources, " + "),
			strings.Join(highlights, "<br>"),
		})
	}
	return rows
}

func markdownTable(headers []string, rows [][]string) string {
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	lines := []string{
		"| " + strings.Join(headers, " | ") + " |",
		"| " + strings.Join(separators, " | ") + " |",
	}
	for _, row := range rows {
		lines = append(lines, "| "+strings.Join(row, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func yesNo(ok bool) string {
	if ok {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
