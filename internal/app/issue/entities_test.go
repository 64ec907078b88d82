package issue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasThisLabel(t *testing.T) {
	item := &Item{
		Number: 1,
		Labels: []string{"bug", "stale"},
	}
	assert.True(t, item.HasThisLabel("stale"))
	assert.False(t, item.HasThisLabel("pinned"))
	empty := &Item{Number: 2}
	assert.False(t, empty.HasThisLabel("stale"))
}

func TestLastLabeledAt(t *testing.T) {
	now := time.Now()
	events := []*LabelEvent{
		{Label: "stale", CreatedAt: now.Add(-100 * time.Hour)},
		{Label: "bug", CreatedAt: now.Add(-1 * time.Hour)},
		{Label: "stale", CreatedAt: now.Add(-10 * time.Hour)},
		{Label: "stale", CreatedAt: now.Add(-50 * time.Hour)},
	}
	res := LastLabeledAt(events, "stale")
	assert.NotNil(t, res)
	assert.Equal(t, now.Add(-10*time.Hour), *res)
	assert.Nil(t, LastLabeledAt(events, "pinned"))
	assert.Nil(t, LastLabeledAt(nil, "stale"))
}

func TestHasHumanActivitySince(t *testing.T) {
	now := time.Now()
	since := now.Add(-10 * time.Hour)
	assert.False(t, HasHumanActivitySince(nil, since))
	// bot comments don't count
	assert.False(t, HasHumanActivitySince([]*Comment{
		{AuthorLogin: "some-bot", FromBot: true, CreatedAt: now},
	}, since))
	// human comment before the reference time doesn't count
	assert.False(t, HasHumanActivitySince([]*Comment{
		{AuthorLogin: "alice", CreatedAt: now.Add(-20 * time.Hour)},
	}, since))
	// human comment exactly at the reference time counts
	assert.True(t, HasHumanActivitySince([]*Comment{
		{AuthorLogin: "alice", CreatedAt: since},
	}, since))
	assert.True(t, HasHumanActivitySince([]*Comment{
		{AuthorLogin: "some-bot", FromBot: true, CreatedAt: now},
		{AuthorLogin: "alice", CreatedAt: now.Add(-2 * time.Hour)},
	}, since))
}
