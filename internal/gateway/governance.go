package gateway

import (
	"strings"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

// GitHubDirectory is the root directory that holds CI workflows.
const GitHubDirectory = ".github"

const workflowsDirectory = "workflows"

// prefixDocs are detected by a root entry whose lowercased name starts with the lowercased kind,
// so README.md, readme.rst and LICENSE-MIT all count.
var prefixDocs = []domain.DocKind{
	domain.DocReadme,
	domain.DocLicense,
	domain.DocChangelog,
	domain.DocContributing,
	domain.DocSecurity,
}

// HasGitHubDirectory reports whether the root entries contain the .github directory.
func HasGitHubDirectory(rootEntries []string) bool {
	for _, entry := range rootEntries {
		if entry == GitHubDirectory {
			return true
		}
	}
	return false
}

// DetectGovernance derives governance flags from root directory entries and the entries of .github.
func DetectGovernance(rootEntries, githubEntries []string) domain.GovernanceFlags {
	flags := domain.GovernanceFlags{}
	for _, kind := range prefixDocs {
		flags[kind] = false
		prefix := strings.ToLower(string(kind))
		for _, entry := range rootEntries {
			if strings.HasPrefix(strings.ToLower(entry), prefix) {
				flags[kind] = true
				break
			}
		}
	}
	workflows := false
	if HasGitHubDirectory(rootEntries) {
		for _, entry := range githubEntries {
			if entry == workflowsDirectory {
				workflows = true
				break
			}
		}
	}
	flags[domain.DocWorkflows] = workflows
	return flags
}
