package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyOverrideKey is returned when an override entry has a blank repository name.
var ErrEmptyOverrideKey = errors.New("theme override has an empty repository name")

// Classifier assigns exactly one theme to a repository.
// Manual overrides win over keyword scoring.
type Classifier struct {
	overrides map[string]Theme
}

// NewClassifier validates the override table and returns a ready classifier.
// Keys are matched case-insensitively against repository names.
// An override pointing at a theme outside the fixed set is a configuration error.
func NewClassifier(overrides map[string]Theme) (*Classifier, error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	table := make(map[string]Theme, len(overrides))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, ErrEmptyOverrideKey
		}
		theme := overrides[name]
		if !theme.Valid() {
			return nil, fmt.Errorf("%w: override %q -> %q", ErrUnknownTheme, name, theme)
		}
		table[key] = theme
	}
	return &Classifier{overrides: table}, nil
}

// Overrides returns a copy of the validated override table.
func (c *Classifier) Overrides() map[string]Theme {
	table := make(map[string]Theme, len(c.overrides))
	for name, theme := range c.overrides {
		table[name] = theme
	}
	return table
}

// Classify returns the theme for a repository.
//
// Each theme scores one point per distinct keyword found anywhere in the lowercased
// name, description and README. The highest score wins and ties go to the theme declared
// first. A corpus with no keyword hits is classified as general.
func (c *Classifier) Classify(name, description, readme string) Theme {
	if theme, ok := c.overrides[strings.ToLower(name)]; ok {
		return theme
	}

	corpus := strings.ToLower(name + " " + description + " " + readme)
	best, bestScore := ThemeGeneral, 0
	for _, def := range themeTable {
		score := 0
		for _, keyword := range def.keywords {
			if strings.Contains(corpus, keyword) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = def.theme, score
		}
	}
	return best
}
