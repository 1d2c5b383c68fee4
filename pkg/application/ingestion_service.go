package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

// IngestionService submits meetings for story generation.
type IngestionService struct {
	backend    domain.IngestionBackend
	dispatcher *events.Dispatcher
	actor      string
	logger     *slog.Logger
}

// NewIngestionService creates an IngestionService. dispatcher may be nil; a
// nil logger means slog.Default().
func NewIngestionService(backend domain.IngestionBackend, dispatcher *events.Dispatcher, actor string, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	if actor == "" {
		actor = "reviewer"
	}
	return &IngestionService{backend: backend, dispatcher: dispatcher, actor: actor, logger: logger}
}

// Submit validates the meeting id and asks the backend to generate stories
// from the meeting. An invalid id never reaches the backend.
func (s *IngestionService) Submit(ctx context.Context, meetingID string) ([]story.Story, error) {
	meetingID = strings.TrimSpace(meetingID)
	if err := transcript.ValidateMeetingID(meetingID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "submitting meeting", "meeting_id", meetingID)
	stories, err := s.backend.SubmitMeeting(ctx, meetingID)
	if err != nil {
		return nil, upstream("submit meeting "+meetingID, err)
	}

	for _, st := range stories {
		s.dispatch(ctx, &events.StoryIngested{
			BaseEvent: events.NewBase(events.TypeStoryIngested, st.ID, s.actor),
			MeetingID: meetingID,
			Title:     st.Title,
		})
	}
	s.logger.InfoContext(ctx, "meeting processed", "meeting_id", meetingID, "stories", len(stories))
	return stories, nil
}

// Transcript returns the transcript of a meeting.
func (s *IngestionService) Transcript(ctx context.Context, meetingID string) (*transcript.Transcript, error) {
	meetingID = strings.TrimSpace(meetingID)
	if err := transcript.ValidateMeetingID(meetingID); err != nil {
		return nil, err
	}
	t, err := s.backend.FetchTranscript(ctx, meetingID)
	if err != nil {
		return nil, upstream("fetch transcript "+meetingID, err)
	}
	return t, nil
}

// Process generates stories from a transcript the caller already holds.
func (s *IngestionService) Process(ctx context.Context, t *transcript.Transcript) ([]story.Story, error) {
	if t == nil {
		return nil, story.NewValidationError("transcript", "is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	stories, err := s.backend.ProcessTranscript(ctx, t)
	if err != nil {
		return nil, upstream("process transcript "+t.MeetingID, err)
	}
	for _, st := range stories {
		s.dispatch(ctx, &events.StoryIngested{
			BaseEvent: events.NewBase(events.TypeStoryIngested, st.ID, s.actor),
			MeetingID: t.MeetingID,
			Title:     st.Title,
		})
	}
	return stories, nil
}

func (s *IngestionService) dispatch(ctx context.Context, e events.DomainEvent) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "failed to dispatch story event",
			"event_type", e.EventType(),
			"story_id", e.AggregateID(),
			"error", err)
	}
}

// upstream keeps the errors a caller can act on and reports everything else
// as the backend being unavailable.
func upstream(op string, err error) error {
	switch {
	case errors.Is(err, story.ErrValidation),
		errors.Is(err, story.ErrNotFound),
		errors.Is(err, story.ErrUnavailable),
		errors.Is(err, context.Canceled):
		return err
	}
	return &story.UnavailableError{Op: op, Err: err}
}
