package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

type mockAudit struct {
	actions  []string
	actors   []string
	metadata []map[string]interface{}
	err      error
}

func (m *mockAudit) Log(action, actor string, metadata map[string]interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, action)
	m.actors = append(m.actors, actor)
	m.metadata = append(m.metadata, metadata)
	return nil
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	event := &StoryPublished{
		BaseEvent: NewBase(TypeStoryPublished, "3", "reviewer"),
		From:      story.StatusApproved,
		WorkItem:  story.WorkItem{ID: "WI-9", URL: "https://tracker/9"},
	}
	if err := NewLoggingHandler(logger).Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"event_type=story.published", "story_id=3", "published_id=WI-9", "from=Approved"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestAuditHandler(t *testing.T) {
	audit := &mockAudit{}
	event := &StoryTransitioned{
		BaseEvent: NewBase(TypeStoryRejected, "4", "reviewer"),
		From:      story.StatusNew,
		To:        story.StatusRejected,
	}
	if err := NewAuditHandler(audit, nil).Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(audit.actions) != 1 || audit.actions[0] != TypeStoryRejected || audit.actors[0] != "reviewer" {
		t.Fatalf("unexpected audit calls: %+v", audit)
	}
	if audit.metadata[0]["to"] != "Rejected" || audit.metadata[0]["story_id"] != "4" {
		t.Errorf("metadata = %v", audit.metadata[0])
	}
}

func TestAuditHandler_Error(t *testing.T) {
	boom := errors.New("disk full")
	h := NewAuditHandler(&mockAudit{err: boom}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	err := h.Handle(context.Background(), &StoryUpdated{BaseEvent: NewBase(TypeStoryUpdated, "1", "x"), Version: 2})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRegisterDefaults(t *testing.T) {
	d := NewDispatcher()
	audit := &mockAudit{}
	RegisterDefaults(d, audit, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	ev := &StoryIngested{BaseEvent: NewBase(TypeStoryIngested, "6", "ingestion"), MeetingID: "meeting-1", Title: "T"}
	if err := d.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(audit.actions) != 1 || audit.metadata[0]["meeting_id"] != "meeting-1" {
		t.Errorf("audit not recorded: %+v", audit)
	}
}
