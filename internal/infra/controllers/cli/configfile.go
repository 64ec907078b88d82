package cli

import (
	"fmt"
	"os"

	"github.com/fabien-marty/github-stale-bot/internal/app"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// configFile is the (fully optional) YAML configuration file.
// Pointers are used to distinguish "not set" from zero values.
type configFile struct {
	StaleIssueMessage *string `yaml:"stale-issue-message"`
	StalePrMessage    *string `yaml:"stale-pr-message"`
	StaleIssueLabel   *string `yaml:"stale-issue-label"`
	StalePrLabel      *string `yaml:"stale-pr-label"`
	ExemptIssueLabel  *string `yaml:"exempt-issue-label"`
	ExemptPrLabel     *string `yaml:"exempt-pr-label"`
	DaysBeforeStale   *int    `yaml:"days-before-stale"`
	DaysBeforeClose   *int    `yaml:"days-before-close"`
	OperationsPerRun  *int    `yaml:"operations-per-run"`
}

func loadConfigFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", path, err)
	}
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("can't parse %s: %w", path, err)
	}
	return &file, nil
}

// applyConfigFile fills the run configuration with the file values for the
// options that were not explicitly set on the command line (or by env var):
// flags and env vars always take precedence over the file.
func applyConfigFile(cCtx *cli.Context, config *app.Config, file *configFile) {
	if file.StaleIssueMessage != nil && !cCtx.IsSet("stale-issue-message") {
		config.StaleIssueMessage = *file.StaleIssueMessage
	}
	if file.StalePrMessage != nil && !cCtx.IsSet("stale-pr-message") {
		config.StalePrMessage = *file.StalePrMessage
	}
	if file.StaleIssueLabel != nil && !cCtx.IsSet("stale-issue-label") {
		config.StaleIssueLabel = *file.StaleIssueLabel
	}
	if file.StalePrLabel != nil && !cCtx.IsSet("stale-pr-label") {
		config.StalePrLabel = *file.StalePrLabel
	}
	if file.ExemptIssueLabel != nil && !cCtx.IsSet("exempt-issue-label") {
		config.ExemptIssueLabel = *file.ExemptIssueLabel
	}
	if file.ExemptPrLabel != nil && !cCtx.IsSet("exempt-pr-label") {
		config.ExemptPrLabel = *file.ExemptPrLabel
	}
	if file.DaysBeforeStale != nil && !cCtx.IsSet("days-before-stale") {
		config.DaysBeforeStale = *file.DaysBeforeStale
	}
	if file.DaysBeforeClose != nil && !cCtx.IsSet("days-before-close") {
		config.DaysBeforeClose = *file.DaysBeforeClose
	}
	if file.OperationsPerRun != nil && !cCtx.IsSet("operations-per-run") {
		config.OperationsPerRun = *file.OperationsPerRun
	}
}
