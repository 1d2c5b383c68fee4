package storage

import (
	"context"
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

// MockIngestion is the offline ingestion backend. It serves the sample
// transcript and registers fresh copies of a story catalogue as the
// "generated" stories.
type MockIngestion struct {
	repo      domain.StoryCreator
	catalogue []story.Story
	now       func() time.Time
}

var _ domain.IngestionBackend = (*MockIngestion)(nil)

// NewMockIngestion creates a backend that adds generated stories to repo.
// A nil catalogue means SeedStories.
func NewMockIngestion(repo domain.StoryCreator, catalogue []story.Story) *MockIngestion {
	if catalogue == nil {
		catalogue = SeedStories()
	}
	return &MockIngestion{repo: repo, catalogue: catalogue, now: time.Now}
}

// SubmitMeeting fetches the sample transcript and processes it.
func (m *MockIngestion) SubmitMeeting(ctx context.Context, meetingID string) ([]story.Story, error) {
	t, err := m.FetchTranscript(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return m.ProcessTranscript(ctx, t)
}

// FetchTranscript returns the sample transcript for any meeting id.
func (m *MockIngestion) FetchTranscript(ctx context.Context, meetingID string) (*transcript.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return transcript.Sample(meetingID, m.now()), nil
}

// ProcessTranscript registers a New copy of every catalogue story.
func (m *MockIngestion) ProcessTranscript(ctx context.Context, t *transcript.Transcript) ([]story.Story, error) {
	out := make([]story.Story, 0, len(m.catalogue))
	for _, s := range m.catalogue {
		candidate := s.Clone()
		candidate.ID = ""
		created, err := m.repo.Create(ctx, candidate)
		if err != nil {
			return out, err
		}
		out = append(out, *created)
	}
	return out, nil
}
