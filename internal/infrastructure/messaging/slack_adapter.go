package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/messaging"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// SlackAdapter sends events to a Slack incoming webhook URL.
type SlackAdapter struct {
	config messaging.AdapterConfig
	client *http.Client
}

// NewSlackAdapter creates a Slack adapter from config.
func NewSlackAdapter(config messaging.AdapterConfig) *SlackAdapter {
	return &SlackAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *SlackAdapter) Name() string { return a.config.Name }
func (a *SlackAdapter) Type() string { return messaging.TypeSlack }

func (a *SlackAdapter) Send(ctx context.Context, event events.DomainEvent) error {
	text := FormatSlackMessage(event)

	payload := map[string]interface{}{
		"text": text,
		"blocks": []map[string]interface{}{
			{
				"type": "section",
				"text": map[string]string{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatSlackMessage renders event as a one-line mrkdwn message.
func FormatSlackMessage(event events.DomainEvent) string {
	switch e := event.(type) {
	case *events.StoryIngested:
		return fmt.Sprintf(":inbox_tray: New story %s from meeting %s: *%s*", e.StoryID, e.MeetingID, e.Title)
	case *events.StoryUpdated:
		return fmt.Sprintf(":pencil2: Story %s edited by %s (version %d)", e.StoryID, e.Actor, e.Version)
	case *events.StoryTransitioned:
		switch e.To {
		case story.StatusApproved:
			return fmt.Sprintf(":white_check_mark: Story %s approved by %s", e.StoryID, e.Actor)
		case story.StatusRejected:
			return fmt.Sprintf(":x: Story %s rejected by %s", e.StoryID, e.Actor)
		}
		return fmt.Sprintf("Story %s moved from %s to %s", e.StoryID, e.From, e.To)
	case *events.StoryPublished:
		return fmt.Sprintf(":rocket: Story %s published as <%s|%s>", e.StoryID, e.WorkItem.URL, e.WorkItem.ID)
	default:
		return fmt.Sprintf("Story review event: %s", event.EventType())
	}
}
