package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

type MockAuditRepo struct {
	Log         []domain.Event
	AppendError error
	LoadError   error
}

func (m *MockAuditRepo) Append(e domain.Event) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.Log = append(m.Log, e)
	return nil
}

func (m *MockAuditRepo) Events() ([]domain.Event, error) {
	return append([]domain.Event(nil), m.Log...), m.LoadError
}

type MockBackend struct {
	Stories     []story.Story
	Transcript  *transcript.Transcript
	Err         error
	SubmittedID string
	Calls       int
}

func (m *MockBackend) SubmitMeeting(ctx context.Context, meetingID string) ([]story.Story, error) {
	m.Calls++
	m.SubmittedID = meetingID
	return m.Stories, m.Err
}

func (m *MockBackend) FetchTranscript(ctx context.Context, meetingID string) (*transcript.Transcript, error) {
	m.Calls++
	return m.Transcript, m.Err
}

func (m *MockBackend) ProcessTranscript(ctx context.Context, t *transcript.Transcript) ([]story.Story, error) {
	m.Calls++
	return m.Stories, m.Err
}

// recorder collects every dispatched event.
type recorder struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (r *recorder) handle(ctx context.Context, e events.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType())
	}
	return out
}

func newRecordingDispatcher() (*events.Dispatcher, *recorder) {
	d := events.NewDispatcher()
	r := &recorder{}
	d.RegisterWildcard("recorder", r.handle)
	return d, r
}

type counterTracker struct {
	seq *domain.Sequence
	err error
}

func (c *counterTracker) CreateWorkItem(ctx context.Context, s story.Story) (story.WorkItem, error) {
	if c.err != nil {
		return story.WorkItem{}, c.err
	}
	n := c.seq.Next()
	return story.WorkItem{ID: "WI-" + n, URL: "https://tracker.example/" + n}, nil
}

var errBoom = errors.New("boom")
