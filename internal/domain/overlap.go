package domain

import (
	"sort"
	"strings"
)

// GroupOverlaps partitions core (active, non-fork) records by theme and returns one cluster per
// theme with at least two members. Clusters follow theme declaration order and members are sorted
// by repository name, case-insensitively.
func GroupOverlaps(records []AuditRecord) []OverlapCluster {
	byTheme := make(map[Theme][]AuditRecord)
	for _, record := range records {
		if !record.Core() {
			continue
		}
		member := NewAuditRecord(record.Repository, record.Governance, record.Theme, record.FeatureBullets)
		byTheme[record.Theme] = append(byTheme[record.Theme], member)
	}

	clusters := []OverlapCluster{}
	for _, theme := range Themes() {
		members := byTheme[theme]
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return strings.ToLower(members[i].Repository.Name) < strings.ToLower(members[j].Repository.Name)
		})
		clusters = append(clusters, OverlapCluster{Theme: theme, Records: members})
	}
	return clusters
}
