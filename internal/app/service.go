package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fabien-marty/github-stale-bot/internal/app/issue"
	"github.com/fabien-marty/github-stale-bot/internal/app/message"
)

// pageSize is the number of items fetched per page.
const pageSize = 100

// Summary is the report of a single run.
type Summary struct {
	Examined            int // number of items examined
	MarkedStale         int // number of items that got the stale label (or would have, in dry-run)
	Unmarked            int // number of items that lost the stale label (or would have, in dry-run)
	Closed              int // number of items closed (or that would have been, in dry-run)
	Skipped             int // number of items skipped (exempt label, disabled role...)
	RemainingOperations int // operation budget left at the end of the run (never negative)
}

// Service is the main application service.
type Service struct {
	config  Config
	adapter issue.Port
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(config Config, adapter issue.Port) *Service {
	return &Service{
		config:  config,
		adapter: adapter,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// SetClock overrides the clock used to evaluate staleness
// (useful for reproducible dry runs).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Run paginates over all the open issues/pull-requests of the repository and
// applies the staleness policy to each of them, item by item, page by page,
// until there is no more page or the operation budget is exhausted.
//
// Any remote failure aborts the run (already committed mutations are kept,
// the policy is idempotent so the next run is safe). The returned summary is
// only valid when err is nil.
func (s *Service) Run() (*Summary, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	staleIssueTpl, err := message.Parse(s.config.StaleIssueMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: bad stale issue message: %s", ErrConfig, err.Error())
	}
	stalePrTpl, err := message.Parse(s.config.StalePrMessage)
	if err != nil {
		return nil, fmt.Errorf("%w: bad stale pr message: %s", ErrConfig, err.Error())
	}
	summary := &Summary{}
	remaining := s.config.OperationsPerRun
	now := s.now()
	for page := 1; ; page++ {
		logger := s.logger.With(slog.Int("page", page))
		logger.Debug("fetching open items...")
		items, err := s.adapter.ListOpenItems(page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("can't list open items (page %d): %w", page, err)
		}
		remaining--
		if len(items) == 0 {
			logger.Debug("no more item to process")
			break
		}
		if remaining <= 0 {
			logger.Info("operation budget exhausted => stopping")
			summary.RemainingOperations = 0
			return summary, nil
		}
		for _, item := range items {
			remaining, err = s.processItem(item, now, remaining, summary, staleIssueTpl, stalePrTpl)
			if err != nil {
				return nil, err
			}
			if remaining <= 0 {
				s.logger.Info("operation budget exhausted => stopping", slog.Int("number", item.Number))
				summary.RemainingOperations = 0
				return summary, nil
			}
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	summary.RemainingOperations = remaining
	return summary, nil
}

// processItem applies the staleness policy to a single item and returns the
// remaining operation budget.
func (s *Service) processItem(item *issue.Item, now time.Time, remaining int, summary *Summary, staleIssueTpl *message.Template, stalePrTpl *message.Template) (int, error) {
	logger := s.logger.With(slog.Int("number", item.Number), slog.Bool("pullRequest", item.IsPullRequest))
	summary.Examined++
	tpl := staleIssueTpl
	if item.IsPullRequest {
		tpl = stalePrTpl
	}
	if tpl.IsEmpty() {
		logger.Debug("no stale message configured for this kind of item => skipping")
		summary.Skipped++
		return remaining, nil
	}
	staleLabel := s.config.staleLabel(item.IsPullRequest)
	exemptLabel := s.config.exemptLabel(item.IsPullRequest)
	if exemptLabel != "" && item.HasThisLabel(exemptLabel) {
		logger.Debug("item has the exempt label => skipping", slog.String("label", exemptLabel))
		summary.Skipped++
		return remaining, nil
	}
	if item.HasThisLabel(staleLabel) {
		return s.processAlreadyStaleItem(item, now, remaining, summary, tpl, staleLabel, logger)
	}
	cutoff := now.Add(-days(s.config.DaysBeforeStale))
	if item.UpdatedAt.After(cutoff) {
		logger.Debug("item recently updated => nothing to do")
		return remaining, nil
	}
	return s.markItemAsStale(item, remaining, summary, tpl, staleLabel, logger)
}

// processAlreadyStaleItem handles an item already carrying the stale label:
// close it if it is past the closing threshold without human activity, or
// remove the stale label if a human commented since the label was applied.
func (s *Service) processAlreadyStaleItem(item *issue.Item, now time.Time, remaining int, summary *Summary, tpl *message.Template, staleLabel string, logger *slog.Logger) (int, error) {
	events, err := s.adapter.ListLabelEvents(item.Number)
	if err != nil {
		return remaining, fmt.Errorf("can't list label events of item #%d: %w", item.Number, err)
	}
	remaining--
	labeledAt := issue.LastLabeledAt(events, staleLabel)
	if labeledAt == nil {
		logger.Warn("stale label present but no matching label event found => skipping", slog.String("label", staleLabel))
		summary.Skipped++
		return remaining, nil
	}
	comments, err := s.adapter.ListCommentsSince(item.Number, *labeledAt)
	if err != nil {
		return remaining, fmt.Errorf("can't list comments of item #%d: %w", item.Number, err)
	}
	remaining--
	if issue.HasHumanActivitySince(comments, *labeledAt) {
		logger.Info("human activity since the stale label was applied => removing the stale label")
		summary.Unmarked++
		if s.config.DryRun {
			return remaining, nil
		}
		if err := s.adapter.RemoveLabel(item.Number, staleLabel); err != nil {
			return remaining, fmt.Errorf("can't remove the label %s from item #%d: %w", staleLabel, item.Number, err)
		}
		return remaining - 1, nil
	}
	closeCutoff := now.Add(-days(s.config.DaysBeforeClose))
	if !labeledAt.Before(closeCutoff) {
		logger.Debug("item is stale but not past the closing threshold => nothing to do")
		return remaining, nil
	}
	body, err := tpl.Render(message.NewContext(item, s.config.DaysBeforeStale, s.config.DaysBeforeClose))
	if err != nil {
		return remaining, err
	}
	logger.Info("no activity since the stale label was applied => closing the item")
	summary.Closed++
	if s.config.DryRun {
		return remaining, nil
	}
	if err := s.adapter.AddComment(item.Number, body); err != nil {
		return remaining, fmt.Errorf("can't comment on item #%d: %w", item.Number, err)
	}
	remaining--
	if err := s.adapter.Close(item.Number); err != nil {
		return remaining, fmt.Errorf("can't close item #%d: %w", item.Number, err)
	}
	return remaining - 1, nil
}

// markItemAsStale posts the stale message and adds the stale label.
func (s *Service) markItemAsStale(item *issue.Item, remaining int, summary *Summary, tpl *message.Template, staleLabel string, logger *slog.Logger) (int, error) {
	body, err := tpl.Render(message.NewContext(item, s.config.DaysBeforeStale, s.config.DaysBeforeClose))
	if err != nil {
		return remaining, err
	}
	logger.Info("item not updated recently => marking as stale", slog.String("label", staleLabel), slog.String("updatedAt", item.UpdatedAt.Format(time.RFC3339)))
	summary.MarkedStale++
	if s.config.DryRun {
		return remaining, nil
	}
	if err := s.adapter.AddComment(item.Number, body); err != nil {
		return remaining, fmt.Errorf("can't comment on item #%d: %w", item.Number, err)
	}
	remaining--
	if err := s.adapter.AddLabel(item.Number, staleLabel); err != nil {
		return remaining, fmt.Errorf("can't add the label %s to item #%d: %w", staleLabel, item.Number, err)
	}
	return remaining - 1, nil
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
