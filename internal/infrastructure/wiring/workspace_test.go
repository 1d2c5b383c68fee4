package wiring

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

func TestNewWorkspaceRecordsDispatchedEvents(t *testing.T) {
	ws := NewWorkspace(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if ws.Audit == nil || ws.Dispatcher == nil {
		t.Fatal("expected audit service and dispatcher")
	}

	ev := &events.StoryTransitioned{
		BaseEvent: events.NewBase(events.TypeStoryApproved, "1", "tester"),
		From:      story.StatusNew,
		To:        story.StatusApproved,
	}
	if err := ws.Dispatcher.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	history, err := ws.Audit.StoryHistory("1")
	if err != nil {
		t.Fatalf("StoryHistory: %v", err)
	}
	if len(history) != 1 || history[0].Action != events.TypeStoryApproved {
		t.Fatalf("history = %+v", history)
	}
}

func TestNewWorkspaceStreamsEvents(t *testing.T) {
	ws := NewWorkspace(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if ws.Stream == nil {
		t.Fatal("expected event stream")
	}
	if !ws.Dispatcher.ContinueOnError {
		t.Error("dispatcher should run every handler")
	}
	// logging, audit and stream
	if n := ws.Dispatcher.HandlerCount(events.TypeStoryPublished); n != 3 {
		t.Errorf("handler count = %d, want 3", n)
	}
}
