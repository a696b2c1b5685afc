package domain

import (
	"regexp"
	"strings"
)

// DefaultFeatureLimit is the number of bullets kept per repository when no limit is configured.
const DefaultFeatureLimit = 10

var (
	headingPattern   = regexp.MustCompile(`^#+\s+`)
	bulletPattern    = regexp.MustCompile(`^[-*]\s+`)
	nonAlnumPattern  = regexp.MustCompile(`[^a-z0-9]+`)
	checkboxPrefixes = []string{"[ ]", "[x]"}
)

// featureHeadingTokens are matched as substrings of the lowercased heading line.
var featureHeadingTokens = []string{
	"feature",
	"capabilit",
	"what is inside",
	"overview",
	"architecture",
	"highlights",
	"what it does",
	"key features",
}

// ExtractFeatureBullets returns up to limit deduplicated feature statements from README-like markdown.
//
// Bullets under feature headings are preferred. When those sections yield nothing, every bullet in
// the document is considered instead. Checklist items are never features.
func ExtractFeatureBullets(text string, limit int) []string {
	bullets := []string{}
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return bullets
	}

	lines := splitLines(text)
	candidates := featureSectionBullets(lines)
	if len(candidates) == 0 {
		candidates = collectBullets(lines)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		key := bulletKey(candidate)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		bullets = append(bullets, candidate)
		if len(bullets) == limit {
			break
		}
	}
	return bullets
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func splitLines(text string) []string {
	lines := strings.Split(lineEndings.Replace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

func isHeading(line string) bool {
	return headingPattern.MatchString(line)
}

func isFeatureHeading(line string) bool {
	lowered := strings.ToLower(line)
	for _, token := range featureHeadingTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

func featureSectionBullets(lines []string) []string {
	var candidates []string
	for i, line := range lines {
		if !isHeading(line) || !isFeatureHeading(line) {
			continue
		}
		end := i + 1
		for end < len(lines) && !isHeading(lines[end]) {
			end++
		}
		candidates = append(candidates, collectBullets(lines[i+1:end])...)
	}
	return candidates
}

func collectBullets(lines []string) []string {
	var candidates []string
	for _, line := range lines {
		if bullet, ok := parseBullet(line); ok {
			candidates = append(candidates, bullet)
		}
	}
	return candidates
}

// parseBullet strips the list marker and reports false for non-bullets and checklist items.
func parseBullet(line string) (string, bool) {
	loc := bulletPattern.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	body := strings.TrimSpace(line[loc[1]:])
	for _, prefix := range checkboxPrefixes {
		if strings.HasPrefix(body, prefix) {
			return "", false
		}
	}
	return strings.Join(strings.Fields(body), " "), true
}

// bulletKey is the case and punctuation insensitive identity used for deduplication.
func bulletKey(bullet string) string {
	return strings.TrimSpace(nonAlnumPattern.ReplaceAllString(strings.ToLower(bullet), " "))
}
