package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// SchemaVersion is the version of the tool arguments and results (semver).
const SchemaVersion = "1.0.0"

const schemaURI = "storyreview://schema"

// Vocabulary lists the values the story tools accept and return.
type Vocabulary struct {
	SchemaVersion   string              `json:"schema_version"`
	ServerVersion   string              `json:"server_version"`
	Statuses        []string            `json:"statuses"`
	Transitions     map[string][]string `json:"transitions"`
	Selectors       []string            `json:"selectors"`
	Priorities      []string            `json:"priorities"`
	StoryPoints     []int               `json:"story_points"`
	DefaultPriority string              `json:"default_priority"`
	DefaultPoints   int                 `json:"default_points"`
}

// vocabulary derives the published values from the story domain. Transitions
// maps each status to the events that move it somewhere else.
func vocabulary() Vocabulary {
	v := Vocabulary{
		SchemaVersion:   SchemaVersion,
		ServerVersion:   Version,
		Transitions:     make(map[string][]string),
		DefaultPriority: story.DefaultPriority.String(),
		DefaultPoints:   int(story.DefaultPoints),
	}
	events := []story.Event{story.EventApprove, story.EventReject, story.EventPublish}
	for _, st := range story.AllStatuses() {
		v.Statuses = append(v.Statuses, st.String())
		allowed := []string{}
		for _, ev := range events {
			if next, err := story.Transition(st, "", ev); err == nil && next != st {
				allowed = append(allowed, string(ev))
			}
		}
		v.Transitions[st.String()] = allowed
	}
	for _, sel := range review.AllSelectors() {
		v.Selectors = append(v.Selectors, string(sel))
	}
	for _, p := range story.AllPriorities() {
		v.Priorities = append(v.Priorities, p.String())
	}
	for _, p := range story.AllowedPoints() {
		v.StoryPoints = append(v.StoryPoints, int(p))
	}
	return v
}

func (s *Server) registerSchemaResource() {
	s.mcpServer.Resource(schemaURI).
		Name(schemaURI).
		Description("Story statuses, review transitions, list selectors, priorities and story points").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			data, err := json.Marshal(vocabulary())
			if err != nil {
				return nil, err
			}
			return &mcplib.ResourceContent{
				URI:      schemaURI,
				MimeType: "application/json",
				Text:     string(data),
			}, nil
		})
}
