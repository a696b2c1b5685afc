package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Prints the theme table and effective overrides as YAML",
	Long: `Prints every theme in tie-break order with its display label and scoring keywords,
followed by the effective manual override table (built-in entries merged with configuration).`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

type themeEntry struct {
	Name     string   `yaml:"name"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords,omitempty"`
}

type overrideEntry struct {
	Repository string `yaml:"repository"`
	Theme      string `yaml:"theme"`
}

type themeTable struct {
	Themes    []themeEntry    `yaml:"themes"`
	Overrides []overrideEntry `yaml:"overrides"`
}

func runThemes(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	classifier, err := domain.NewClassifier(cfg.EffectiveOverrides())
	if err != nil {
		return fmt.Errorf("invalid theme overrides: %w", err)
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(buildThemeTable(classifier)); err != nil {
		return fmt.Errorf("failed to encode theme table: %w", err)
	}
	return encoder.Close()
}

func buildThemeTable(classifier *domain.Classifier) themeTable {
	var table themeTable
	for _, theme := range domain.Themes() {
		table.Themes = append(table.Themes, themeEntry{
			Name:     string(theme),
			Label:    theme.DisplayName(),
			Keywords: theme.Keywords(),
		})
	}

	overrides := classifier.Overrides()
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.Overrides = append(table.Overrides, overrideEntry{Repository: name, Theme: string(overrides[name])})
	}
	return table
}
