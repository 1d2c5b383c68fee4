package domain

import (
	"context"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

// StoryRepository is the source of truth for stories during a session.
// Every mutating call is a single atomic write and returns the stored story.
type StoryRepository interface {
	List(ctx context.Context) ([]story.Story, error)
	Get(ctx context.Context, id string) (*story.Story, error)
	Update(ctx context.Context, s story.Story) (*story.Story, error)
	Approve(ctx context.Context, id string) (*story.Story, error)
	Reject(ctx context.Context, id string) (*story.Story, error)
	Publish(ctx context.Context, id string) (*story.Story, error)
}

// IngestionBackend turns meetings into candidate stories.
type IngestionBackend interface {
	// SubmitMeeting fetches and processes the transcript of a meeting and
	// returns the stories created from it.
	SubmitMeeting(ctx context.Context, meetingID string) ([]story.Story, error)

	// FetchTranscript returns the transcript of a meeting.
	FetchTranscript(ctx context.Context, meetingID string) (*transcript.Transcript, error)

	// ProcessTranscript generates stories from a transcript the caller already holds.
	ProcessTranscript(ctx context.Context, t *transcript.Transcript) ([]story.Story, error)
}

// Tracker is the external work-item system stories are published to.
type Tracker interface {
	CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error)
}

// TrackerFunc adapts a function to Tracker.
type TrackerFunc func(ctx context.Context, s story.Story) (story.WorkItem, error)

// CreateWorkItem calls f.
func (f TrackerFunc) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	return f(ctx, s)
}

// StoryCreator registers new stories and assigns their ids. Only the
// session-local repository creates stories; a remote backend does it itself.
type StoryCreator interface {
	Create(ctx context.Context, s story.Story) (*story.Story, error)
}
