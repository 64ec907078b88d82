package app

import (
	"errors"
	"fmt"
)

// ErrConfig is the error returned when the run configuration is invalid
// (raised before any remote call).
var ErrConfig = errors.New("invalid configuration")

// Config is the configuration of a single run.
type Config struct {
	RepoOwner         string // repository owner (organization)
	RepoName          string // repository name (without owner/organization part)
	Token             string // host API token
	DryRun            bool   // if true, mutating actions are not performed (and cost nothing)
	StaleIssueMessage string // comment posted when an issue goes stale (empty = feature disabled for issues)
	StalePrMessage    string // comment posted when a pull request goes stale (empty = feature disabled for PRs)
	StaleIssueLabel   string // label marking a stale issue
	StalePrLabel      string // label marking a stale pull request
	ExemptIssueLabel  string // issues with this label are never processed (empty = no exemption)
	ExemptPrLabel     string // pull requests with this label are never processed (empty = no exemption)
	DaysBeforeStale   int    // days without update before an item is marked stale
	DaysBeforeClose   int    // days after the stale label before an item is closed
	OperationsPerRun  int    // budget of remote operations for the whole run
}

// Validate checks the configuration and returns an error (wrapping ErrConfig)
// describing the first problem found.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: token is required", ErrConfig)
	}
	if c.RepoOwner == "" || c.RepoName == "" {
		return fmt.Errorf("%w: repository owner and name are required", ErrConfig)
	}
	if c.StaleIssueLabel == "" {
		return fmt.Errorf("%w: stale issue label is required", ErrConfig)
	}
	if c.StalePrLabel == "" {
		return fmt.Errorf("%w: stale pr label is required", ErrConfig)
	}
	if c.DaysBeforeStale <= 0 {
		return fmt.Errorf("%w: days-before-stale must be > 0", ErrConfig)
	}
	if c.DaysBeforeClose <= 0 {
		return fmt.Errorf("%w: days-before-close must be > 0", ErrConfig)
	}
	if c.OperationsPerRun <= 0 {
		return fmt.Errorf("%w: operations-per-run must be > 0", ErrConfig)
	}
	return nil
}

// staleMessage returns the stale message for the given role
// (empty string = feature disabled for this role).
func (c *Config) staleMessage(isPullRequest bool) string {
	if isPullRequest {
		return c.StalePrMessage
	}
	return c.StaleIssueMessage
}

// staleLabel returns the stale label for the given role.
func (c *Config) staleLabel(isPullRequest bool) string {
	if isPullRequest {
		return c.StalePrLabel
	}
	return c.StaleIssueLabel
}

// exemptLabel returns the exempt label for the given role (can be empty).
func (c *Config) exemptLabel(isPullRequest bool) string {
	if isPullRequest {
		return c.ExemptPrLabel
	}
	return c.ExemptIssueLabel
}
