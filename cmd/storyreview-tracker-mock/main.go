package main

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/hashicorp/go-plugin"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/tracker"
	"github.com/felixgeelhaar/storyreview/pkg/domain"
	domainPlugin "github.com/felixgeelhaar/storyreview/pkg/domain/plugin"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	infraPlugin "github.com/felixgeelhaar/storyreview/pkg/plugin"
)

// MockPublisher serves the placeholder tracker as a plugin.
type MockPublisher struct {
	tracker *tracker.Placeholder
}

func (m *MockPublisher) Init(config map[string]string) error {
	if config["fail"] == "true" {
		return errors.New("mock publisher configured to fail")
	}
	start := int64(tracker.DefaultPlaceholderStart)
	if raw, ok := config["start"]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return errors.New("start must be a number")
		}
		start = n
	}
	m.tracker = tracker.NewPlaceholder(config["base_url"], config["prefix"], domain.NewSequence(start))
	return nil
}

func (m *MockPublisher) CreateWorkItem(s story.Story) (story.WorkItem, error) {
	if m.tracker == nil {
		m.tracker = tracker.NewPlaceholder("", "", nil)
	}
	log.Printf("Creating work item for story %q", s.ID)
	return m.tracker.CreateWorkItem(context.Background(), s)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			infraPlugin.PublisherKey: &domainPlugin.PublisherPlugin{Impl: &MockPublisher{}},
		},
	})
}
