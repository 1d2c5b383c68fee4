package tracker

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// DefaultTimeout bounds a single work-item creation.
const DefaultTimeout = 30 * time.Second

// Bounded limits how long the wrapped tracker may take per work item.
type Bounded struct {
	inner   domain.Tracker
	timeout time.Duration
}

// WithTimeout wraps t so every call gives up after d. A non-positive d
// uses DefaultTimeout.
func WithTimeout(t domain.Tracker, d time.Duration) *Bounded {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Bounded{inner: t, timeout: d}
}

// CreateWorkItem calls the wrapped tracker under the timeout.
func (b *Bounded) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	t := timeout.New[story.WorkItem](timeout.Config{DefaultTimeout: b.timeout})
	return t.Execute(ctx, b.timeout, func(ctx context.Context) (story.WorkItem, error) {
		return b.inner.CreateWorkItem(ctx, s)
	})
}
