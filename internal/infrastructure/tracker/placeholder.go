// Package tracker provides the work-item trackers stories are published to.
package tracker

import (
	"context"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

const (
	DefaultPlaceholderBaseURL = "https://dev.azure.com/organization/project/_workitems/edit/"
	DefaultPlaceholderPrefix  = "WI-"
	DefaultPlaceholderStart   = 1000
)

// Placeholder fabricates work items locally. It stands in for a real
// tracker in mock sessions.
type Placeholder struct {
	baseURL string
	prefix  string
	ids     domain.IDGenerator
}

var _ domain.Tracker = (*Placeholder)(nil)

// NewPlaceholder creates a placeholder tracker. Empty baseURL and prefix use
// the defaults; a nil ids starts a sequence at DefaultPlaceholderStart.
func NewPlaceholder(baseURL, prefix string, ids domain.IDGenerator) *Placeholder {
	if baseURL == "" {
		baseURL = DefaultPlaceholderBaseURL
	}
	if prefix == "" {
		prefix = DefaultPlaceholderPrefix
	}
	if ids == nil {
		ids = domain.NewSequence(DefaultPlaceholderStart)
	}
	return &Placeholder{baseURL: baseURL, prefix: prefix, ids: ids}
}

// CreateWorkItem returns <prefix><n> and <baseURL><n> for the next n.
func (p *Placeholder) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	if err := ctx.Err(); err != nil {
		return story.WorkItem{}, err
	}
	n := p.ids.Next()
	return story.WorkItem{ID: p.prefix + n, URL: p.baseURL + n}, nil
}
