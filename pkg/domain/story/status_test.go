package story_test

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

func TestStatus_ZeroValueIsNew(t *testing.T) {
	var s story.Status
	if s != story.StatusNew {
		t.Errorf("zero Status = %s, want New", s)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    story.Status
		wantErr bool
	}{
		{"New", story.StatusNew, false},
		{"approved", story.StatusApproved, false},
		{"REJECTED", story.StatusRejected, false},
		{" Published ", story.StatusPublished, false},
		{"", story.StatusNew, false},
		{"done", story.StatusNew, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := story.ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(story.StatusApproved)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"Approved"` {
		t.Errorf("marshal = %s, want \"Approved\"", data)
	}

	var s story.Status
	if err := json.Unmarshal([]byte(`""`), &s); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if s != story.StatusNew {
		t.Errorf("empty status decoded to %s, want New", s)
	}

	// Stored values are case-sensitive.
	if err := json.Unmarshal([]byte(`"approved"`), &s); err == nil {
		t.Error("expected error for lower-case stored status")
	}

	if _, err := json.Marshal(story.Status(42)); err == nil {
		t.Error("expected error marshalling unknown status")
	}
}

func TestStatus_AbsentFieldDecodesToNew(t *testing.T) {
	var s story.Story
	if err := json.Unmarshal([]byte(`{"id":"9","title":"T"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Status != story.StatusNew {
		t.Errorf("status = %s, want New", s.Status)
	}
}

func TestStatus_Transitions(t *testing.T) {
	if story.StatusPublished.CanTransitionTo(story.StatusApproved) {
		t.Error("published stories must not transition")
	}
	if !story.StatusRejected.CanTransitionTo(story.StatusApproved) {
		t.Error("rejected stories can be approved")
	}
	if story.StatusApproved.CanTransitionTo(story.StatusNew) {
		t.Error("no transition leads back to New")
	}
	if got := story.StatusPublished.ValidTransitions(); got != nil {
		t.Errorf("published transitions = %v, want none", got)
	}
	if got := len(story.StatusNew.ValidTransitions()); got != 3 {
		t.Errorf("new has %d transitions, want 3", got)
	}
}

func TestParsePriorityAndPoints(t *testing.T) {
	p, err := story.ParsePriority("high")
	if err != nil || p != story.PriorityHigh {
		t.Errorf("ParsePriority(high) = %q, %v", p, err)
	}
	if _, err := story.ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}

	for _, in := range []string{"1", "2", "3", "5", "8"} {
		if _, err := story.ParsePoints(in); err != nil {
			t.Errorf("ParsePoints(%q): %v", in, err)
		}
	}
	for _, in := range []string{"0", "4", "13", "x", ""} {
		if _, err := story.ParsePoints(in); err == nil {
			t.Errorf("ParsePoints(%q) should fail", in)
		}
	}
}
