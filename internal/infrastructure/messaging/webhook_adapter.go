// Package messaging delivers story events to webhook and Slack endpoints.
package messaging

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/messaging"
)

// SignatureHeader carries the HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Storyreview-Signature"

const defaultAttempts = 3

// WebhookAdapter posts events as JSON to a generic webhook URL.
type WebhookAdapter struct {
	config   messaging.AdapterConfig
	client   *http.Client
	retryCfg retry.Config
}

// NewWebhookAdapter creates a webhook adapter from config. The "max_attempts"
// option overrides the number of delivery attempts.
func NewWebhookAdapter(config messaging.AdapterConfig) *WebhookAdapter {
	attempts := defaultAttempts
	if n, err := strconv.Atoi(config.Options["max_attempts"]); err == nil && n > 0 {
		attempts = n
	}
	return &WebhookAdapter{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		retryCfg: retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

func (a *WebhookAdapter) Name() string { return a.config.Name }
func (a *WebhookAdapter) Type() string { return messaging.TypeWebhook }

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string                 `json:"event_type"`
	StoryID   string                 `json:"story_id,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (a *WebhookAdapter) Send(ctx context.Context, event events.DomainEvent) error {
	body, err := json.Marshal(Payload{
		EventType: event.EventType(),
		StoryID:   event.AggregateID(),
		Actor:     event.ActorName(),
		Timestamp: event.OccurredAt(),
		Data:      event.Metadata(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	r := retry.New[struct{}](a.retryCfg)
	_, err = r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.post(ctx, body)
	})
	return err
}

func (a *WebhookAdapter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Storyreview-Webhook/1.0")
	if a.config.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, a.config.Secret))
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 of payload using secret, in the form
// "sha256=<hex>".
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
