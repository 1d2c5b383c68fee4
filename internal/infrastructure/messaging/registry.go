package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/domain/messaging"
)

type entry struct {
	config  messaging.AdapterConfig
	adapter messaging.MessageAdapter
}

// Registry creates messaging adapters from configuration and fans story
// events out to them.
type Registry struct {
	entries []entry
	logger  *slog.Logger
}

// NewRegistry creates the enabled adapters of config. A nil logger means
// slog.Default().
func NewRegistry(config *messaging.MessagingConfig, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		return &Registry{logger: logger}, nil
	}

	var entries []entry
	for _, cfg := range config.Adapters {
		if !cfg.Enabled {
			continue
		}

		adapter, err := createAdapter(cfg)
		if err != nil {
			return nil, fmt.Errorf("create adapter %q: %w", cfg.Name, err)
		}
		entries = append(entries, entry{config: cfg, adapter: adapter})
	}

	return &Registry{entries: entries, logger: logger}, nil
}

// Adapters returns all active adapters.
func (r *Registry) Adapters() []messaging.MessageAdapter {
	out := make([]messaging.MessageAdapter, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.adapter)
	}
	return out
}

// Handle sends event to every adapter whose filters accept it. All adapters
// are tried; their failures are returned together.
func (r *Registry) Handle(ctx context.Context, event events.DomainEvent) error {
	var errs []error
	for _, e := range r.entries {
		if !e.config.Accepts(event.EventType()) {
			continue
		}
		if err := e.adapter.Send(ctx, event); err != nil {
			r.logger.WarnContext(ctx, "notification failed",
				"adapter", e.adapter.Name(),
				"event_type", event.EventType(),
				"story_id", event.AggregateID(),
				"error", err)
			errs = append(errs, fmt.Errorf("%s: %w", e.adapter.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Attach registers the registry for every event of d. Nothing is registered
// when no adapter is enabled.
func (r *Registry) Attach(d *events.Dispatcher) {
	if len(r.entries) == 0 {
		return
	}
	d.RegisterWildcard("notifications", r.Handle)
}

func createAdapter(cfg messaging.AdapterConfig) (messaging.MessageAdapter, error) {
	switch cfg.Type {
	case messaging.TypeWebhook:
		return NewWebhookAdapter(cfg), nil
	case messaging.TypeSlack:
		return NewSlackAdapter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown adapter type: %s", cfg.Type)
	}
}
