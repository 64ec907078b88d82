package issuegithub

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fabien-marty/github-stale-bot/internal/app/issue"
	gh "github.com/google/go-github/v70/github"
)

var _ issue.Port = &Adapter{}

type AdapterOptions struct {
	Token string
}

type Adapter struct {
	opts   AdapterOptions
	client *gh.Client
	owner  string
	repo   string
}

func NewAdapter(owner string, repo string, opts AdapterOptions) *Adapter {
	client := gh.NewClient(nil)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	return &Adapter{
		client: client,
		opts:   opts,
		owner:  owner,
		repo:   repo,
	}
}

func (r *Adapter) createItemFromGhIssue(ghIssue *gh.Issue) *issue.Item {
	if ghIssue.Number == nil || ghIssue.Title == nil || ghIssue.UpdatedAt == nil || ghIssue.HTMLURL == nil {
		return nil
	}
	labels := []string{}
	for _, label := range ghIssue.Labels {
		if label.Name == nil {
			continue
		}
		labels = append(labels, *label.Name)
	}
	return &issue.Item{
		Number:        *ghIssue.Number,
		Title:         *ghIssue.Title,
		UpdatedAt:     ghIssue.UpdatedAt.Time,
		IsPullRequest: ghIssue.IsPullRequest(),
		Labels:        labels,
		Url:           *ghIssue.HTMLURL,
	}
}

func (r *Adapter) ListOpenItems(page int, perPage int) ([]*issue.Item, error) {
	logger := slog.Default().With(slog.String("owner", r.owner), slog.String("repo", r.repo), slog.Int("page", page))
	logger.Debug("fetching open issues/pull-requests...")
	ghIssues, _, err := r.client.Issues.ListByRepo(context.Background(), r.owner, r.repo, &gh.IssueListByRepoOptions{
		State: "open",
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, err
	}
	res := []*issue.Item{}
	for _, ghIssue := range ghIssues {
		item := r.createItemFromGhIssue(ghIssue)
		if item == nil {
			continue
		}
		res = append(res, item)
	}
	logger.Debug("open issues/pull-requests fetched", slog.Int("count", len(res)))
	return res, nil
}

func (r *Adapter) ListCommentsSince(number int, since time.Time) ([]*issue.Comment, error) {
	listOptions := &gh.IssueListCommentsOptions{
		Since: &since,
		ListOptions: gh.ListOptions{
			Page:    1,
			PerPage: 100,
		},
	}
	res := []*issue.Comment{}
	for {
		ghComments, resp, err := r.client.Issues.ListComments(context.Background(), r.owner, r.repo, number, listOptions)
		if err != nil {
			return nil, err
		}
		for _, ghComment := range ghComments {
			if ghComment.User == nil || ghComment.User.Login == nil || ghComment.CreatedAt == nil {
				continue
			}
			// the API reports "User" for humans (other values: "Bot", "Organization"...)
			fromBot := ghComment.User.Type == nil || *ghComment.User.Type != "User"
			res = append(res, &issue.Comment{
				AuthorLogin: *ghComment.User.Login,
				FromBot:     fromBot,
				CreatedAt:   ghComment.CreatedAt.Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		listOptions.Page = resp.NextPage
	}
	return res, nil
}

func (r *Adapter) ListLabelEvents(number int) ([]*issue.LabelEvent, error) {
	listOptions := &gh.ListOptions{
		Page:    1,
		PerPage: 100,
	}
	res := []*issue.LabelEvent{}
	for {
		ghEvents, resp, err := r.client.Issues.ListIssueEvents(context.Background(), r.owner, r.repo, number, listOptions)
		if err != nil {
			return nil, err
		}
		for _, ghEvent := range ghEvents {
			if ghEvent.Event == nil || *ghEvent.Event != "labeled" {
				continue
			}
			if ghEvent.Label == nil || ghEvent.Label.Name == nil || ghEvent.CreatedAt == nil {
				continue
			}
			res = append(res, &issue.LabelEvent{
				Label:     *ghEvent.Label.Name,
				CreatedAt: ghEvent.CreatedAt.Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		listOptions.Page = resp.NextPage
	}
	return res, nil
}

func (r *Adapter) AddLabel(number int, label string) error {
	_, _, err := r.client.Issues.AddLabelsToIssue(context.Background(), r.owner, r.repo, number, []string{label})
	return err
}

func (r *Adapter) RemoveLabel(number int, label string) error {
	// the label ends up in the request path => it must be escaped
	_, err := r.client.Issues.RemoveLabelForIssue(context.Background(), r.owner, r.repo, number, url.PathEscape(label))
	return err
}

func (r *Adapter) AddComment(number int, body string) error {
	_, _, err := r.client.Issues.CreateComment(context.Background(), r.owner, r.repo, number, &gh.IssueComment{
		Body: &body,
	})
	return err
}

func (r *Adapter) Close(number int) error {
	state := "closed"
	_, _, err := r.client.Issues.Edit(context.Background(), r.owner, r.repo, number, &gh.IssueRequest{
		State: &state,
	})
	return err
}
