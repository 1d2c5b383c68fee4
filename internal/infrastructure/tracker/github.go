package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// GitHub publishes stories as GitHub issues.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	labels []string
}

var _ domain.Tracker = (*GitHub)(nil)

// NewGitHub creates a tracker that opens issues in owner/repo. labels are
// added to every issue next to the story tags.
func NewGitHub(client *github.Client, owner, repo string, labels []string) *GitHub {
	if client == nil {
		client = github.NewClient(nil)
	}
	return &GitHub{client: client, owner: owner, repo: repo, labels: labels}
}

// NewTokenClient returns a GitHub API client that sends token as a bearer token.
func NewTokenClient(token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(context.Background(), ts))
}

// NewGitHubFromToken creates a GitHub tracker authenticated with token.
func NewGitHubFromToken(token, owner, repo string, labels []string) *GitHub {
	return NewGitHub(NewTokenClient(token), owner, repo, labels)
}

// CreateWorkItem opens an issue for s. The work item id is "#<number>".
func (g *GitHub) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	labels := issueLabels(g.labels, s.Tags)
	req := &github.IssueRequest{
		Title:  github.Ptr(s.Title),
		Body:   github.Ptr(IssueBody(s)),
		Labels: &labels,
	}

	issue, _, err := g.client.Issues.Create(ctx, g.owner, g.repo, req)
	if err != nil {
		return story.WorkItem{}, fmt.Errorf("create issue in %s/%s: %w", g.owner, g.repo, err)
	}
	return story.WorkItem{
		ID:  fmt.Sprintf("#%d", issue.GetNumber()),
		URL: issue.GetHTMLURL(),
	}, nil
}

// IssueBody renders a story as the markdown body of an issue.
func IssueBody(s story.Story) string {
	var b strings.Builder
	b.WriteString(s.UserStory)
	b.WriteString("\n\n## Acceptance criteria\n\n")
	for _, c := range s.AcceptanceCriteria {
		fmt.Fprintf(&b, "- [ ] %s\n", c)
	}
	fmt.Fprintf(&b, "\n**Story points:** %d\n", s.StoryPoints)
	fmt.Fprintf(&b, "**Priority:** %s\n", s.Priority)
	return b.String()
}

func issueLabels(fixed, tags []string) []string {
	seen := make(map[string]bool, len(fixed)+len(tags))
	out := make([]string, 0, len(fixed)+len(tags))
	for _, l := range append(append([]string{}, fixed...), tags...) {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
