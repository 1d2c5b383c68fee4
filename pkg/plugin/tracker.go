package plugin

import (
	"context"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Tracker adapts a plugin publisher to domain.Tracker.
type Tracker struct {
	pub domainPlugin.Publisher
}

var _ domain.Tracker = (*Tracker)(nil)

func NewTracker(pub domainPlugin.Publisher) *Tracker {
	return &Tracker{pub: pub}
}

type createResult struct {
	item story.WorkItem
	err  error
}

// CreateWorkItem forwards the story to the plugin. The RPC itself cannot be
// cancelled; a done context stops waiting for it.
func (t *Tracker) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	if err := ctx.Err(); err != nil {
		return story.WorkItem{}, err
	}
	done := make(chan createResult, 1)
	go func() {
		item, err := t.pub.CreateWorkItem(s)
		done <- createResult{item: item, err: err}
	}()

	select {
	case <-ctx.Done():
		return story.WorkItem{}, ctx.Err()
	case r := <-done:
		return r.item, r.err
	}
}
