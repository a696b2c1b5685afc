// Package config loads the audit configuration from an optional YAML file,
// environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/naka-gawa/repo-portfolio-audit/internal/domain"
)

const (
	configName      = "portfolio-audit"
	configType      = "yaml"
	envPrefix       = "PORTFOLIO_AUDIT"
	keyDelimiter    = "::"
	tokenEnvVar     = "GITHUB_TOKEN"
	defaultDotEnv   = ".env"
	defaultSearchIn = "."
)

// Configuration keys.
const (
	KeyOwner                = "owner"
	KeyOutputDir            = "output_dir"
	KeyRepositoryLimit      = "repository_limit"
	KeyFeatureLimit         = "feature_limit"
	KeyConcurrency          = "concurrency"
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"
	KeyThemeOverrides       = "theme_overrides"
	KeyConsolidationTargets = "consolidation_targets"
	KeyGitHubToken          = "github_token"
)

var (
	ErrMissingOwner           = errors.New("owner is required")
	ErrInvalidFeatureLimit    = errors.New("feature_limit must be at least 1")
	ErrInvalidRepositoryLimit = errors.New("repository_limit must be at least 1")
	ErrInvalidConcurrency     = errors.New("concurrency must be at least 1")
)

// ConsolidationTarget describes a planned merge of several repositories into one.
type ConsolidationTarget struct {
	Target     string   `mapstructure:"target"`
	Sources    []string `mapstructure:"sources"`
	Highlights []string `mapstructure:"highlights"`
}

// Config holds every runtime option of the audit.
type Config struct {
	Owner                string                `mapstructure:"owner"`
	OutputDir            string                `mapstructure:"output_dir"`
	RepositoryLimit      int                   `mapstructure:"repository_limit"`
	FeatureLimit         int                   `mapstructure:"feature_limit"`
	Concurrency          int                   `mapstructure:"concurrency"`
	LogLevel             string                `mapstructure:"log_level"`
	LogFormat            string                `mapstructure:"log_format"`
	ThemeOverrides       map[string]string     `mapstructure:"theme_overrides"`
	ConsolidationTargets []ConsolidationTarget `mapstructure:"consolidation_targets"`
	GitHubToken          string                `mapstructure:"github_token"`

	// ConfigFileUsed is the path of the file that was read, empty when none was found.
	ConfigFileUsed string `mapstructure:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		KeyOwner:           "",
		KeyOutputDir:       "reports",
		KeyRepositoryLimit: 100,
		KeyFeatureLimit:    domain.DefaultFeatureLimit,
		KeyConcurrency:     4,
		KeyLogLevel:        "info",
		KeyLogFormat:       "console",
		KeyGitHubToken:     "",
	}
}

// Load reads configuration from path, or from portfolio-audit.yaml in the working directory
// when path is empty. A missing default file is not an error; a missing explicit path is.
// Variables from a .env file in the working directory are exported first without overriding
// the existing environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(defaultDotEnv); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", defaultDotEnv, err)
	}

	// Repository names may contain dots, so keys must not split on them.
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(defaultSearchIn)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyGitHubToken, tokenEnvVar); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", tokenEnvVar, err)
	}
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.ConfigFileUsed = v.ConfigFileUsed()
	return &cfg, nil
}

// Validate checks the settings an audit run depends on.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Owner) == "" {
		errs = append(errs, ErrMissingOwner)
	}
	if c.RepositoryLimit < 1 {
		errs = append(errs, ErrInvalidRepositoryLimit)
	}
	if c.FeatureLimit < 1 {
		errs = append(errs, ErrInvalidFeatureLimit)
	}
	if c.Concurrency < 1 {
		errs = append(errs, ErrInvalidConcurrency)
	}
	return errors.Join(errs...)
}

// EffectiveOverrides merges the configured theme overrides over the built-in table.
// Configured entries win. Theme labels are not validated here; domain.NewClassifier does that.
func (c *Config) EffectiveOverrides() map[string]domain.Theme {
	overrides := domain.DefaultThemeOverrides()
	for name, theme := range c.ThemeOverrides {
		overrides[strings.ToLower(strings.TrimSpace(name))] = domain.Theme(strings.TrimSpace(theme))
	}
	return overrides
}
