package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTheme is returned when a theme label is outside the fixed theme set.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme is a closed-set label approximating a repository's subject domain.
type Theme string

const (
	ThemeEEGNeurofeedback   Theme = "eeg_neurofeedback"
	ThemeCodexFramework     Theme = "codex_framework"
	ThemeMemoryIntelligence Theme = "memory_intelligence"
	ThemeAgentTooling       Theme = "agent_tooling"
	ThemeGeneral            Theme = "general"
)

type themeDefinition struct {
	theme    Theme
	label    string
	keywords []string
}

// themeTable is ordered: score ties resolve to the earliest entry.
var themeTable = []themeDefinition{
	{
		theme:    ThemeEEGNeurofeedback,
		label:    "EEG + Neurofeedback",
		keywords: []string{"eeg", "muse", "neurofeedback", "brainwave", "whoop", "hrv"},
	},
	{
		theme:    ThemeCodexFramework,
		label:    "Codex + System Architecture",
		keywords: []string{"codex", "legacy", "architecture", "protocol", "framework"},
	},
	{
		theme:    ThemeMemoryIntelligence,
		label:    "Memory + Knowledge Systems",
		keywords: []string{"memory", "mem-layer", "retain", "knowledge base", "learn", "conversation", "mcp"},
	},
	{
		theme:    ThemeAgentTooling,
		label:    "Agent Tooling + Interface Layer",
		keywords: []string{"cli", "agent", "terminal", "tool", "automation", "screenshot", "package manager"},
	},
	{
		theme: ThemeGeneral,
		label: "General",
	},
}

// Themes returns every theme in declaration order, with the catch-all general theme last.
func Themes() []Theme {
	themes := make([]Theme, 0, len(themeTable))
	for _, def := range themeTable {
		themes = append(themes, def.theme)
	}
	return themes
}

// ParseTheme converts a label into a Theme, rejecting anything outside the fixed set.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(strings.TrimSpace(value))
	if !theme.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, value)
	}
	return theme, nil
}

// Valid reports whether the theme belongs to the fixed theme set.
func (t Theme) Valid() bool {
	_, ok := t.definition()
	return ok
}

// DisplayName returns the human readable label used in reports.
// Unknown themes render with the general label.
func (t Theme) DisplayName() string {
	if def, ok := t.definition(); ok {
		return def.label
	}
	return themeTable[len(themeTable)-1].label
}

// Keywords returns a copy of the theme's scoring keywords. The general theme has none.
func (t Theme) Keywords() []string {
	def, ok := t.definition()
	if !ok {
		return nil
	}
	return append([]string(nil), def.keywords...)
}

func (t Theme) definition() (themeDefinition, bool) {
	for _, def := range themeTable {
		if def.theme == t {
			return def, true
		}
	}
	return themeDefinition{}, false
}

// DefaultThemeOverrides returns the built-in manual classification table,
// keyed by lowercased repository name.
func DefaultThemeOverrides() map[string]Theme {
	return map[string]Theme{
		"legacy-codex":              ThemeCodexFramework,
		"codex-system-architecture": ThemeCodexFramework,
		"muse-neurofeedback":        ThemeEEGNeurofeedback,
		"museeegproject":            ThemeEEGNeurofeedback,
		"neurocreative-platform":    ThemeEEGNeurofeedback,
		"mem-layer":                 ThemeMemoryIntelligence,
		"retain":                    ThemeMemoryIntelligence,
		"gemini-cli":                ThemeAgentTooling,
		"opencode":                  ThemeAgentTooling,
		"vibetunnel":                ThemeAgentTooling,
		"snag":                      ThemeAgentTooling,
		"brew":                      ThemeAgentTooling,
	}
}
