// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/repo-portfolio-audit/internal/config"
	"github.com/naka-gawa/repo-portfolio-audit/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio-audit",
	Short: "A CLI tool to audit a GitHub repository portfolio for consolidation.",
	Long: `portfolio-audit inventories the repositories of a GitHub owner, checks which
governance documents each one lacks, extracts README feature bullets, groups
repositories by theme and reports the overlap clusters worth consolidating.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file (default ./portfolio-audit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// loadRuntime reads the configuration and builds the logger, honouring the persistent flags.
func loadRuntime(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("configuration loaded", zap.String("config_file", cfg.ConfigFileUsed), zap.String("log_level", cfg.LogLevel))
	return cfg, logger, nil
}
