package issue

import (
	"time"
)

// Item represents an open issue or pull request.
// (the GitHub API exposes pull requests as issues with an associated PR link)
type Item struct {
	Number        int       // issue (or pull request) number
	Title         string    // issue title
	UpdatedAt     time.Time // last update date (any activity)
	IsPullRequest bool      // true if the item is a pull request
	Labels        []string  // item labels
	Url           string    // item url
}

// Comment represents a single comment posted on an item.
type Comment struct {
	AuthorLogin string    // comment author login
	FromBot     bool      // true if the author is an automated account
	CreatedAt   time.Time // comment creation date
}

// LabelEvent represents a "label added" event in an item's history.
type LabelEvent struct {
	Label     string    // name of the added label
	CreatedAt time.Time // date the label was added
}

// HasThisLabel returns true if the item has the given label.
func (i *Item) HasThisLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// LastLabeledAt returns the date of the most recent application of the given
// label, derived from the item's event history (nil if the label was never
// added according to the events).
func LastLabeledAt(events []*LabelEvent, label string) *time.Time {
	var res *time.Time
	for _, event := range events {
		if event.Label != label {
			continue
		}
		if res == nil || event.CreatedAt.After(*res) {
			t := event.CreatedAt
			res = &t
		}
	}
	return res
}

// HasHumanActivitySince returns true if at least one comment authored by a
// human (not an automated account) was posted at or after the given time.
func HasHumanActivitySince(comments []*Comment, since time.Time) bool {
	for _, comment := range comments {
		if comment.FromBot {
			continue
		}
		if !comment.CreatedAt.Before(since) {
			return true
		}
	}
	return false
}
