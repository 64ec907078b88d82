package message

import (
	"testing"

	"github.com/fabien-marty/github-stale-bot/internal/app/issue"
	"github.com/stretchr/testify/assert"
)

func TestParsePlainString(t *testing.T) {
	tpl, err := Parse("This issue is stale")
	assert.Nil(t, err)
	assert.False(t, tpl.IsEmpty())
	body, err := tpl.Render(Context{})
	assert.Nil(t, err)
	assert.Equal(t, "This issue is stale", body)
}

func TestParseEmpty(t *testing.T) {
	tpl, err := Parse("")
	assert.Nil(t, err)
	assert.True(t, tpl.IsEmpty())
}

func TestParseError(t *testing.T) {
	_, err := Parse("{{ .Title")
	assert.NotNil(t, err)
}

func TestRenderWithContext(t *testing.T) {
	tpl, err := Parse("Issue #{{ .Number }} ({{ .Title }}) had no activity for {{ .DaysBeforeStale }} days")
	assert.Nil(t, err)
	item := &issue.Item{Number: 42, Title: "Something is broken"}
	body, err := tpl.Render(NewContext(item, 60, 7))
	assert.Nil(t, err)
	assert.Equal(t, "Issue #42 (Something is broken) had no activity for 60 days", body)
}

func TestRenderWithSprigFunctions(t *testing.T) {
	tpl, err := Parse("{{ .Title | upper }}{{ if .IsPullRequest }} (PR){{ end }}")
	assert.Nil(t, err)
	item := &issue.Item{Number: 1, Title: "hello", IsPullRequest: true}
	body, err := tpl.Render(NewContext(item, 60, 7))
	assert.Nil(t, err)
	assert.Equal(t, "HELLO (PR)", body)
}
