package application

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/editor"
	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// ReviewService is the entry point for reviewing stories. It wraps a
// repository and emits a domain event for every change.
type ReviewService struct {
	repo       domain.StoryRepository
	dispatcher *events.Dispatcher
	actor      string
	logger     *slog.Logger
}

// NewReviewService creates a ReviewService. dispatcher may be nil; a nil
// logger means slog.Default().
func NewReviewService(repo domain.StoryRepository, dispatcher *events.Dispatcher, actor string, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	if actor == "" {
		actor = "reviewer"
	}
	return &ReviewService{repo: repo, dispatcher: dispatcher, actor: actor, logger: logger}
}

// ItemResult is the outcome of one item of a batch operation.
type ItemResult struct {
	ID    string
	Story *story.Story
	Err   error
}

// OK reports whether the item succeeded.
func (r ItemResult) OK() bool { return r.Err == nil }

// Failed returns the failed items of a batch.
func Failed(results []ItemResult) []ItemResult {
	var out []ItemResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// List returns the stories matching sel.
func (s *ReviewService) List(ctx context.Context, sel review.Selector) ([]story.Story, error) {
	stories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return review.Filter(stories, sel), nil
}

// Stats counts all stories per status.
func (s *ReviewService) Stats(ctx context.Context) (review.Counts, error) {
	stories, err := s.repo.List(ctx)
	if err != nil {
		return review.Counts{}, err
	}
	return review.Aggregate(stories), nil
}

// Get returns one story.
func (s *ReviewService) Get(ctx context.Context, id string) (*story.Story, error) {
	return s.repo.Get(ctx, id)
}

// Edit applies raw form input to a story. The edit is based on the version
// read here, so a concurrent change in between is reported as a conflict.
func (s *ReviewService) Edit(ctx context.Context, id string, form editor.Form) (*story.Story, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate, err := editor.Apply(*current, form)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, candidate)
}

// Update hands a candidate story to the repository.
func (s *ReviewService) Update(ctx context.Context, candidate story.Story) (*story.Story, error) {
	updated, err := s.repo.Update(ctx, candidate)
	if err != nil {
		return nil, err
	}
	s.dispatch(ctx, &events.StoryUpdated{
		BaseEvent: events.NewBase(events.TypeStoryUpdated, updated.ID, s.actor),
		Version:   updated.Version,
	})
	return updated, nil
}

// Approve moves a story to Approved.
func (s *ReviewService) Approve(ctx context.Context, id string) (*story.Story, error) {
	return s.apply(ctx, id, story.EventApprove)
}

// Reject moves a story to Rejected.
func (s *ReviewService) Reject(ctx context.Context, id string) (*story.Story, error) {
	return s.apply(ctx, id, story.EventReject)
}

// Publish sends a story to the tracker and moves it to Published.
func (s *ReviewService) Publish(ctx context.Context, id string) (*story.Story, error) {
	return s.apply(ctx, id, story.EventPublish)
}

// Transition applies event to every id in order. A failure is reported on
// its item and does not affect the others.
func (s *ReviewService) Transition(ctx context.Context, event story.Event, ids []string) []ItemResult {
	results := make([]ItemResult, 0, len(ids))
	for _, id := range ids {
		st, err := s.apply(ctx, id, event)
		results = append(results, ItemResult{ID: id, Story: st, Err: err})
	}
	return results
}

func (s *ReviewService) apply(ctx context.Context, id string, event story.Event) (*story.Story, error) {
	from := story.StatusNew
	if before, err := s.repo.Get(ctx, id); err == nil {
		from = before.Status
	}

	var (
		after *story.Story
		err   error
	)
	switch event {
	case story.EventApprove:
		after, err = s.repo.Approve(ctx, id)
	case story.EventReject:
		after, err = s.repo.Reject(ctx, id)
	case story.EventPublish:
		after, err = s.repo.Publish(ctx, id)
	default:
		return nil, &story.TransitionError{ID: id, From: from, Event: event}
	}
	if err != nil {
		s.logger.DebugContext(ctx, "story transition failed", "story_id", id, "event", string(event), "error", err)
		return nil, err
	}
	if after.Status == from {
		return after, nil
	}

	base := events.NewBase(eventType(event), id, s.actor)
	if event == story.EventPublish {
		s.dispatch(ctx, &events.StoryPublished{
			BaseEvent: base,
			From:      from,
			WorkItem:  story.WorkItem{ID: after.PublishedID, URL: after.PublishedURL},
		})
	} else {
		s.dispatch(ctx, &events.StoryTransitioned{BaseEvent: base, From: from, To: after.Status})
	}
	return after, nil
}

func (s *ReviewService) dispatch(ctx context.Context, e events.DomainEvent) {
	if s.dispatcher == nil {
		return
	}
	// The change is already stored; a failing handler is logged, not returned.
	if err := s.dispatcher.Dispatch(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to dispatch story event",
			"event_type", e.EventType(),
			"story_id", e.AggregateID(),
			"error", err)
	}
}

func eventType(e story.Event) string {
	switch e {
	case story.EventApprove:
		return events.TypeStoryApproved
	case story.EventReject:
		return events.TypeStoryRejected
	default:
		return events.TypeStoryPublished
	}
}
