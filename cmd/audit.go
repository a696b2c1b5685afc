package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-portfolio-audit/internal/config"
	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
	"github.com/naka-gawa/repo-portfolio-audit/internal/gateway"
	"github.com/naka-gawa/repo-portfolio-audit/internal/report"
	"github.com/naka-gawa/repo-portfolio-audit/internal/usecase"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audits an owner's repositories and writes JSON + Markdown reports",
	Long: `Lists every repository of a GitHub user or organization, inspects its root files,
.github workflows and README, classifies it into a theme and writes a JSON payload
plus a Markdown consolidation plan to the output directory.`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringP("owner", "o", "", "GitHub owner or organization name")
	auditCmd.Flags().String("output-dir", "", "Directory for generated JSON/Markdown outputs (default reports)")
	auditCmd.Flags().Int("repository-limit", 0, "Maximum number of repositories to audit (default 100)")
	auditCmd.Flags().Int("feature-limit", 0, "Maximum feature bullets kept per repository (default 10)")
	auditCmd.Flags().Int("concurrency", 0, "Repositories inspected in parallel (default 4)")
	auditCmd.Flags().Bool("dry-run", false, "Print the reports to stdout instead of writing files")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	applyAuditFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Overrides are checked before anything is fetched.
	classifier, err := domain.NewClassifier(cfg.EffectiveOverrides())
	if err != nil {
		return fmt.Errorf("invalid theme overrides: %w", err)
	}

	if cfg.GitHubToken == "" {
		return errors.New("GITHUB_TOKEN environment variable is not set")
	}
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	auditor := usecase.NewAuditor(githubGateway, domain.NewAnalyzer(classifier, cfg.FeatureLimit), logger, usecase.Options{
		RepositoryLimit: cfg.RepositoryLimit,
		Concurrency:     cfg.Concurrency,
	})
	portfolio, err := auditor.Audit(cmd.Context(), cfg.Owner)
	if err != nil {
		return fmt.Errorf("failed to audit portfolio: %w", err)
	}

	doc := report.Document{
		Owner:       cfg.Owner,
		GeneratedAt: time.Now(),
		Portfolio:   portfolio,
		Targets:     consolidationTargets(cfg.ConsolidationTargets),
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return report.WriteTo(cmd.OutOrStdout(), doc)
	}
	paths, err := report.WriteFiles(cfg.OutputDir, doc)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", path)
	}
	return nil
}

// applyAuditFlags lets explicitly set flags win over file and environment configuration.
func applyAuditFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("owner") {
		cfg.Owner, _ = flags.GetString("owner")
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("repository-limit") {
		cfg.RepositoryLimit, _ = flags.GetInt("repository-limit")
	}
	if flags.Changed("feature-limit") {
		cfg.FeatureLimit, _ = flags.GetInt("feature-limit")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
}

func consolidationTargets(targets []config.ConsolidationTarget) []report.ConsolidationTarget {
	converted := make([]report.ConsolidationTarget, 0, len(targets))
	for _, target := range targets {
		converted = append(converted, report.ConsolidationTarget{
			Target:     target.Target,
			Sources:    target.Sources,
			Highlights: target.Highlights,
		})
	}
	return converted
}
