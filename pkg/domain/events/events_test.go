package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

func TestNewBase(t *testing.T) {
	before := time.Now().UTC()
	e := NewBase(TypeStoryRejected, "4", "alice")

	if e.EventType() != "story.rejected" || e.AggregateID() != "4" || e.ActorName() != "alice" {
		t.Errorf("unexpected base event: %+v", e)
	}
	if e.OccurredAt().Before(before) || e.OccurredAt().Location() != time.UTC {
		t.Errorf("timestamp = %v", e.OccurredAt())
	}
}

func TestMetadata(t *testing.T) {
	tests := []struct {
		name  string
		event DomainEvent
		want  map[string]interface{}
	}{
		{
			name: "ingested",
			event: &StoryIngested{
				BaseEvent: NewBase(TypeStoryIngested, "6", "bot"),
				MeetingID: "meeting-2024",
				Title:     "Search",
			},
			want: map[string]interface{}{"story_id": "6", "meeting_id": "meeting-2024", "title": "Search"},
		},
		{
			name:  "updated",
			event: &StoryUpdated{BaseEvent: NewBase(TypeStoryUpdated, "2", "bot"), Version: 3},
			want:  map[string]interface{}{"story_id": "2", "version": 3},
		},
		{
			name: "transitioned",
			event: &StoryTransitioned{
				BaseEvent: NewBase(TypeStoryApproved, "1", "bot"),
				From:      story.StatusNew,
				To:        story.StatusApproved,
			},
			want: map[string]interface{}{"story_id": "1", "from": "New", "to": "Approved"},
		},
		{
			name: "published",
			event: &StoryPublished{
				BaseEvent: NewBase(TypeStoryPublished, "2", "bot"),
				From:      story.StatusApproved,
				WorkItem:  story.WorkItem{ID: "WI-1000", URL: "https://tracker.example/1000"},
			},
			want: map[string]interface{}{
				"story_id":      "2",
				"from":          "Approved",
				"published_id":  "WI-1000",
				"published_url": "https://tracker.example/1000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.event.Metadata()); diff != "" {
				t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoryTransitioned_JSONUsesStatusNames(t *testing.T) {
	e := &StoryTransitioned{BaseEvent: NewBase(TypeStoryRejected, "5", "bot"), From: story.StatusApproved, To: story.StatusRejected}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["from"] != "Approved" || decoded["to"] != "Rejected" || decoded["type"] != "story.rejected" {
		t.Errorf("unexpected JSON: %s", data)
	}
}
