package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fabien-marty/github-stale-bot/internal/app"
	"github.com/fabien-marty/github-stale-bot/internal/infra/adapters/issue/issuegithub"
	"github.com/fabien-marty/slog-helpers/pkg/slogc"
	"github.com/relvacode/iso8601"
	"github.com/urfave/cli/v2"
)

var cliFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "INFO",
		Usage:   "log level (DEBUG, INFO, WARN, ERROR)",
		EnvVars: []string{"LOG_LEVEL"},
	},
	&cli.StringFlag{
		Name:    "log-format",
		Value:   "text-human",
		Usage:   "log format (text-human, text, json, json-gcp)",
		EnvVars: []string{"LOG_FORMAT"},
	},
	&cli.StringFlag{
		Name:    "github-token",
		Usage:   "github token",
		EnvVars: []string{"GITHUB_TOKEN"},
	},
	&cli.StringFlag{
		Name:    "repo-owner",
		Usage:   "repository owner (organization); if not set, we are going to try to guess",
		EnvVars: []string{"GSB_REPO_OWNER"},
	},
	&cli.StringFlag{
		Name:    "repo-name",
		Usage:   "repository name (without owner/organization part); if not set, we are going to try to guess",
		EnvVars: []string{"GSB_REPO_NAME"},
	},
	&cli.StringFlag{
		Name:    "config",
		Usage:   "path to an optional YAML configuration file (flags and env vars take precedence)",
		EnvVars: []string{"GSB_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "dry-run",
		Value:   false,
		Usage:   "if set, don't perform any mutating action (read-only lookups are still done)",
		EnvVars: []string{"GSB_DRY_RUN"},
	},
	&cli.StringFlag{
		Name:    "stale-issue-message",
		Value:   "",
		Usage:   "comment posted when an issue goes stale (go-template, empty = don't process issues)",
		EnvVars: []string{"GSB_STALE_ISSUE_MESSAGE"},
	},
	&cli.StringFlag{
		Name:    "stale-pr-message",
		Value:   "",
		Usage:   "comment posted when a pull request goes stale (go-template, empty = don't process PRs)",
		EnvVars: []string{"GSB_STALE_PR_MESSAGE"},
	},
	&cli.StringFlag{
		Name:    "stale-issue-label",
		Value:   "stale",
		Usage:   "label marking a stale issue",
		EnvVars: []string{"GSB_STALE_ISSUE_LABEL"},
	},
	&cli.StringFlag{
		Name:    "stale-pr-label",
		Value:   "stale",
		Usage:   "label marking a stale pull request",
		EnvVars: []string{"GSB_STALE_PR_LABEL"},
	},
	&cli.StringFlag{
		Name:    "exempt-issue-label",
		Value:   "",
		Usage:   "issues with this label are never marked stale or closed (empty = no exemption)",
		EnvVars: []string{"GSB_EXEMPT_ISSUE_LABEL"},
	},
	&cli.StringFlag{
		Name:    "exempt-pr-label",
		Value:   "",
		Usage:   "pull requests with this label are never marked stale or closed (empty = no exemption)",
		EnvVars: []string{"GSB_EXEMPT_PR_LABEL"},
	},
	&cli.IntFlag{
		Name:    "days-before-stale",
		Value:   60,
		Usage:   "number of days without update before an item is marked stale",
		EnvVars: []string{"GSB_DAYS_BEFORE_STALE"},
	},
	&cli.IntFlag{
		Name:    "days-before-close",
		Value:   7,
		Usage:   "number of days after the stale label before an item is closed",
		EnvVars: []string{"GSB_DAYS_BEFORE_CLOSE"},
	},
	&cli.IntFlag{
		Name:    "operations-per-run",
		Value:   30,
		Usage:   "budget of remote API operations for a single run (rate limit protection)",
		EnvVars: []string{"GSB_OPERATIONS_PER_RUN"},
	},
	&cli.StringFlag{
		Name:    "now",
		Value:   "",
		Usage:   "override the current time (iso8601), useful with --dry-run to replay a run",
		EnvVars: []string{"GSB_NOW"},
	},
}

func setDefaultLogger(cCtx *cli.Context) {
	logger := slogc.GetLogger(
		slogc.WithLevel(slogc.GetLogLevelFromString(cCtx.String("log-level"))),
		slogc.WithLogFormat(slogc.GetLogFormatFromString(cCtx.String("log-format"))),
	)
	slog.SetDefault(logger)
}

func getRepoOwnerAndRepoName(cCtx *cli.Context) (repoOwner string, repoName string, err error) {
	repoOwner = cCtx.String("repo-owner")
	repoName = cCtx.String("repo-name")
	if repoOwner == "" || repoName == "" {
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			repoOwner, repoName = guessGHRepoFromEnv()
		}
		if repoOwner == "" || repoName == "" {
			return "", "", cli.Exit("Can't guess the repository owner and name => please provide them as CLI flags", 1)
		}
	}
	return repoOwner, repoName, nil
}

func guessGHRepoFromEnv() (owner string, repo string) {
	ghOwner := os.Getenv("GITHUB_REPOSITORY_OWNER")
	ghRepository := os.Getenv("GITHUB_REPOSITORY")
	if ghOwner != "" && ghRepository != "" {
		// we are in a GitHub Actions environment
		return ghOwner, ghRepository[len(ghOwner)+1:]
	}
	return "", ""
}

func action(cCtx *cli.Context) error {
	setDefaultLogger(cCtx)
	repoOwner, repoName, err := getRepoOwnerAndRepoName(cCtx)
	if err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("Repository owner: %s, repository name: %s", repoOwner, repoName))
	config := app.Config{
		RepoOwner:         repoOwner,
		RepoName:          repoName,
		Token:             cCtx.String("github-token"),
		DryRun:            cCtx.Bool("dry-run"),
		StaleIssueMessage: cCtx.String("stale-issue-message"),
		StalePrMessage:    cCtx.String("stale-pr-message"),
		StaleIssueLabel:   cCtx.String("stale-issue-label"),
		StalePrLabel:      cCtx.String("stale-pr-label"),
		ExemptIssueLabel:  cCtx.String("exempt-issue-label"),
		ExemptPrLabel:     cCtx.String("exempt-pr-label"),
		DaysBeforeStale:   cCtx.Int("days-before-stale"),
		DaysBeforeClose:   cCtx.Int("days-before-close"),
		OperationsPerRun:  cCtx.Int("operations-per-run"),
	}
	if path := cCtx.String("config"); path != "" {
		file, err := loadConfigFile(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Can't load the configuration file: %s", err), 1)
		}
		applyConfigFile(cCtx, &config, file)
	}
	adapter := issuegithub.NewAdapter(repoOwner, repoName, issuegithub.AdapterOptions{Token: cCtx.String("github-token")})
	service := app.NewService(config, adapter)
	if nowString := cCtx.String("now"); nowString != "" {
		now, err := iso8601.ParseString(nowString)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Can't parse the --now value: %s", err), 1)
		}
		service.SetClock(func() time.Time { return now })
	}
	summary, err := service.Run()
	if err != nil {
		if errors.Is(err, app.ErrConfig) {
			return cli.Exit(err.Error(), 1)
		}
		return cli.Exit(err.Error(), 2)
	}
	slog.Info("run finished",
		slog.Bool("dryRun", config.DryRun),
		slog.Int("examined", summary.Examined),
		slog.Int("markedStale", summary.MarkedStale),
		slog.Int("unmarked", summary.Unmarked),
		slog.Int("closed", summary.Closed),
		slog.Int("skipped", summary.Skipped),
		slog.Int("remainingOperations", summary.RemainingOperations),
	)
	return nil
}

func Main() {
	app := &cli.App{
		Name:   "github-stale-bot",
		Usage:  "Label stale GitHub issues/PRs after a period of inactivity and close them if inactivity continues",
		Action: action,
		Flags:  cliFlags,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "bad CLI arguments: %s", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
