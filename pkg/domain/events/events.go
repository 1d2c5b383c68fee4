// Package events defines the domain events emitted while reviewing stories.
package events

import (
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Event types. They double as audit actions.
const (
	TypeStoryIngested  = domain.ActionStoryIngested
	TypeStoryUpdated   = domain.ActionStoryUpdated
	TypeStoryApproved  = domain.ActionStoryApproved
	TypeStoryRejected  = domain.ActionStoryRejected
	TypeStoryPublished = domain.ActionStoryPublished
)

// DomainEvent is the interface shared by all story events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
	ActorName() string
	// Metadata returns the event payload as flat key/value pairs for the
	// audit trail and structured logs.
	Metadata() map[string]interface{}
}

// BaseEvent carries the fields every event has.
type BaseEvent struct {
	Type      string    `json:"type"`
	StoryID   string    `json:"story_id"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.StoryID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) ActorName() string     { return e.Actor }

// NewBase stamps a BaseEvent with the current time.
func NewBase(eventType, storyID, actor string) BaseEvent {
	return BaseEvent{Type: eventType, StoryID: storyID, Actor: actor, Timestamp: time.Now().UTC()}
}

// StoryIngested is emitted for every story created from a meeting.
type StoryIngested struct {
	BaseEvent
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title"`
}

func (e *StoryIngested) Metadata() map[string]interface{} {
	return map[string]interface{}{"story_id": e.StoryID, "meeting_id": e.MeetingID, "title": e.Title}
}

// StoryUpdated is emitted when the mutable fields of a story are replaced.
type StoryUpdated struct {
	BaseEvent
	Version int `json:"version"`
}

func (e *StoryUpdated) Metadata() map[string]interface{} {
	return map[string]interface{}{"story_id": e.StoryID, "version": e.Version}
}

// StoryTransitioned is emitted for approve and reject.
type StoryTransitioned struct {
	BaseEvent
	From story.Status `json:"from"`
	To   story.Status `json:"to"`
}

func (e *StoryTransitioned) Metadata() map[string]interface{} {
	return map[string]interface{}{"story_id": e.StoryID, "from": e.From.String(), "to": e.To.String()}
}

// StoryPublished is emitted once a work item exists for the story.
type StoryPublished struct {
	BaseEvent
	From     story.Status   `json:"from"`
	WorkItem story.WorkItem `json:"work_item"`
}

func (e *StoryPublished) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"story_id":      e.StoryID,
		"from":          e.From.String(),
		"published_id":  e.WorkItem.ID,
		"published_url": e.WorkItem.URL,
	}
}
