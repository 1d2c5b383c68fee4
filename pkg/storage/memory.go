package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// MemoryRepository keeps the stories of a session in memory. It is the
// repository used when the data source is "mock".
type MemoryRepository struct {
	mu      sync.RWMutex
	stories []story.Story
	index   map[string]int
	ids     domain.IDGenerator
	tracker domain.Tracker
	guard   func(storyID string, event story.Event) bool

	// publishing holds a channel per story whose work item is being created.
	// It is closed once the publish commits or fails.
	publishing map[string]chan struct{}
}

var (
	_ domain.StoryRepository = (*MemoryRepository)(nil)
	_ domain.StoryCreator    = (*MemoryRepository)(nil)
)

// MemoryOption configures a MemoryRepository.
type MemoryOption func(*MemoryRepository)

// WithIDGenerator sets the generator for ids of created stories. The default
// continues after the highest numeric seed id.
func WithIDGenerator(ids domain.IDGenerator) MemoryOption {
	return func(r *MemoryRepository) { r.ids = ids }
}

// WithStories replaces the seed stories.
func WithStories(stories []story.Story) MemoryOption {
	return func(r *MemoryRepository) {
		r.stories = make([]story.Story, 0, len(stories))
		for _, s := range stories {
			r.stories = append(r.stories, s.Clone())
		}
	}
}

// WithTransitionGuard installs a guard that can veto approve and publish.
func WithTransitionGuard(guard func(storyID string, event story.Event) bool) MemoryOption {
	return func(r *MemoryRepository) { r.guard = guard }
}

// NewMemoryRepository creates a repository seeded with SeedStories unless
// WithStories says otherwise. Publishing asks tracker for the work item.
func NewMemoryRepository(tracker domain.Tracker, opts ...MemoryOption) *MemoryRepository {
	r := &MemoryRepository{tracker: tracker, publishing: make(map[string]chan struct{})}
	WithStories(SeedStories())(r)
	for _, opt := range opts {
		opt(r)
	}

	r.index = make(map[string]int, len(r.stories))
	maxID := int64(0)
	for i, s := range r.stories {
		r.index[s.ID] = i
		if n, err := strconv.ParseInt(s.ID, 10, 64); err == nil && n > maxID {
			maxID = n
		}
	}
	if r.ids == nil {
		r.ids = domain.NewSequence(maxID + 1)
	}
	return r
}

// List returns a copy of all stories in insertion order.
func (r *MemoryRepository) List(ctx context.Context) ([]story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]story.Story, 0, len(r.stories))
	for _, s := range r.stories {
		out = append(out, s.Clone())
	}
	return out, nil
}

// Get returns a copy of the story with the given id.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, &story.NotFoundError{ID: id}
	}
	s := r.stories[i].Clone()
	return &s, nil
}

// Create registers a new story in status New and assigns its id.
func (r *MemoryRepository) Create(ctx context.Context, s story.Story) (*story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := s.Clone()
	created.Status = story.StatusNew
	created.PublishedID = ""
	created.PublishedURL = ""
	created.Version = 1
	if err := created.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created.ID = r.ids.Next()
	if _, exists := r.index[created.ID]; exists {
		return nil, fmt.Errorf("id generator returned duplicate id %q", created.ID)
	}
	r.index[created.ID] = len(r.stories)
	r.stories = append(r.stories, created)

	out := created.Clone()
	return &out, nil
}

// Update replaces the mutable fields of an existing story. A non-zero
// Version must match the stored one.
func (r *MemoryRepository) Update(ctx context.Context, s story.Story) (*story.Story, error) {
	if err := r.lockIdle(ctx, s.ID); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	i, ok := r.index[s.ID]
	if !ok {
		return nil, &story.NotFoundError{ID: s.ID}
	}
	current := r.stories[i]
	if s.Version != 0 && s.Version != current.Version {
		return nil, &story.ConflictError{ID: s.ID, Expected: s.Version, Actual: current.Version}
	}

	next := current.Clone()
	next.ApplyEdit(s)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	next.Version++
	r.stories[i] = next

	out := next.Clone()
	return &out, nil
}

// Approve moves a story to Approved.
func (r *MemoryRepository) Approve(ctx context.Context, id string) (*story.Story, error) {
	return r.transition(ctx, id, story.EventApprove)
}

// Reject moves a story to Rejected.
func (r *MemoryRepository) Reject(ctx context.Context, id string) (*story.Story, error) {
	return r.transition(ctx, id, story.EventReject)
}

// Publish creates a work item for the story and moves it to Published. The
// tracker runs without the lock held; the story stays claimed meanwhile so a
// concurrent publish, edit or transition waits and a story is never published
// twice.
func (r *MemoryRepository) Publish(ctx context.Context, id string) (*story.Story, error) {
	if err := r.lockIdle(ctx, id); err != nil {
		return nil, err
	}

	i, ok := r.index[id]
	if !ok {
		r.mu.Unlock()
		return nil, &story.NotFoundError{ID: id}
	}
	current := r.stories[i].Clone()
	if current.IsPublished() {
		r.mu.Unlock()
		return nil, &story.AlreadyPublishedError{ID: id, PublishedID: current.PublishedID}
	}
	sm, err := story.NewStateMachine(current.Status, id, r.guard)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if _, err := sm.Fire(story.EventPublish); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if r.tracker == nil {
		r.mu.Unlock()
		return nil, &story.UnavailableError{Op: "publish story " + id, Message: "no work-item tracker configured"}
	}
	done := make(chan struct{})
	r.publishing[id] = done
	r.mu.Unlock()

	item, err := r.tracker.CreateWorkItem(ctx, current)

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.publishing, id)
	close(done)

	if err != nil {
		return nil, &story.UnavailableError{Op: "publish story " + id, Err: err}
	}
	if item.ID == "" || item.URL == "" {
		return nil, &story.UnavailableError{Op: "publish story " + id, Message: "tracker returned an incomplete work item"}
	}

	next := r.stories[i].Clone()
	next.MarkPublished(item)
	next.Version++
	r.stories[i] = next

	out := next.Clone()
	return &out, nil
}

// lockIdle takes the write lock once no publish of id is in flight. On
// success the caller owns r.mu.
func (r *MemoryRepository) lockIdle(ctx context.Context, id string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.mu.Lock()
		done, busy := r.publishing[id]
		if !busy {
			return nil
		}
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *MemoryRepository) transition(ctx context.Context, id string, event story.Event) (*story.Story, error) {
	if err := r.lockIdle(ctx, id); err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, &story.NotFoundError{ID: id}
	}
	current := r.stories[i]

	sm, err := story.NewStateMachine(current.Status, id, r.guard)
	if err != nil {
		return nil, err
	}
	status, err := sm.Fire(event)
	if err != nil {
		var published *story.AlreadyPublishedError
		if errors.As(err, &published) {
			published.PublishedID = current.PublishedID
		}
		return nil, err
	}

	next := current.Clone()
	if status != current.Status {
		next.Status = status
		next.Version++
		r.stories[i] = next
	}

	out := next.Clone()
	return &out, nil
}
