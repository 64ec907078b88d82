package message

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/fabien-marty/github-stale-bot/internal/app/issue"
)

// Context is the object exposed to message templates.
type Context struct {
	Number          int    // item number
	Title           string // item title
	IsPullRequest   bool   // true if the item is a pull request
	DaysBeforeStale int    // configured staleness threshold (in days)
	DaysBeforeClose int    // configured closing threshold (in days)
}

// Template is a parsed comment-body template.
// A plain string without template actions renders to itself.
type Template struct {
	raw string
	tpl *template.Template
}

// Parse parses the given template string (sprig functions are available).
// An empty string is valid and means "feature disabled".
func Parse(raw string) (*Template, error) {
	tpl, err := template.New("message").Funcs(sprig.FuncMap()).Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("can't parse the message template: %w", err)
	}
	return &Template{raw: raw, tpl: tpl}, nil
}

// IsEmpty returns true if the template is empty (feature disabled).
func (t *Template) IsEmpty() bool {
	return t == nil || t.raw == ""
}

// Render executes the template with the given context.
func (t *Template) Render(ctx Context) (string, error) {
	var body bytes.Buffer
	err := t.tpl.Execute(&body, ctx)
	if err != nil {
		return "", fmt.Errorf("can't execute the message template: %w on context: %+v", err, ctx)
	}
	return body.String(), nil
}

// NewContext builds a template context from an item and the configured
// thresholds.
func NewContext(item *issue.Item, daysBeforeStale int, daysBeforeClose int) Context {
	return Context{
		Number:          item.Number,
		Title:           item.Title,
		IsPullRequest:   item.IsPullRequest,
		DaysBeforeStale: daysBeforeStale,
		DaysBeforeClose: daysBeforeClose,
	}
}
