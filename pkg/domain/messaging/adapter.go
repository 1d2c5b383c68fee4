// Package messaging defines the adapters that announce story events to
// external channels.
package messaging

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
)

// Adapter types.
const (
	TypeWebhook = "webhook"
	TypeSlack   = "slack"
)

// MessageAdapter sends event notifications to an external channel.
type MessageAdapter interface {
	Send(ctx context.Context, event events.DomainEvent) error
	Name() string
	Type() string
}

// AdapterConfig defines configuration for a messaging adapter.
type AdapterConfig struct {
	Name         string            `yaml:"name" json:"name"`
	Type         string            `yaml:"type" json:"type"` // "webhook", "slack"
	URL          string            `yaml:"url" json:"url"`
	Secret       string            `yaml:"secret,omitempty" json:"secret,omitempty"`
	EventFilters []string          `yaml:"event_filters,omitempty" json:"event_filters,omitempty"`
	Enabled      bool              `yaml:"enabled" json:"enabled"`
	Options      map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

func (c AdapterConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Type, validation.Required, validation.In(TypeWebhook, TypeSlack)),
		validation.Field(&c.URL, validation.Required, is.URL),
	)
}

// Accepts reports whether events of eventType pass the adapter's filters.
// No filters means every event.
func (c AdapterConfig) Accepts(eventType string) bool {
	if len(c.EventFilters) == 0 {
		return true
	}
	for _, f := range c.EventFilters {
		if f == eventType || f == "*" {
			return true
		}
	}
	return false
}

// MessagingConfig holds all configured messaging adapters.
type MessagingConfig struct {
	Adapters []AdapterConfig `yaml:"adapters" json:"adapters"`
}

// Validate checks every adapter, disabled ones included, and rejects
// duplicate names.
func (c MessagingConfig) Validate() error {
	seen := make(map[string]bool, len(c.Adapters))
	for i, a := range c.Adapters {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("adapter %d: %w", i, err)
		}
		if seen[a.Name] {
			return fmt.Errorf("adapter %q is configured twice", a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}

// Find returns the adapter configuration called name.
func (c MessagingConfig) Find(name string) (AdapterConfig, bool) {
	for _, a := range c.Adapters {
		if a.Name == name {
			return a, true
		}
	}
	return AdapterConfig{}, false
}
