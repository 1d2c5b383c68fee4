package events

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
)

// LoggingHandler writes every event to a structured logger.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. A nil logger means slog.Default().
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger}
}

// Handle logs the event at info level.
func (h *LoggingHandler) Handle(ctx context.Context, event DomainEvent) error {
	args := []any{"event_type", event.EventType(), "story_id", event.AggregateID(), "actor", event.ActorName()}
	for k, v := range event.Metadata() {
		if k == "story_id" {
			continue
		}
		args = append(args, k, v)
	}
	h.logger.InfoContext(ctx, "story event", args...)
	return nil
}

// AuditHandler records every event in the audit trail.
type AuditHandler struct {
	audit  domain.AuditLogger
	logger *slog.Logger
}

// NewAuditHandler creates an AuditHandler. A nil logger means slog.Default().
func NewAuditHandler(audit domain.AuditLogger, logger *slog.Logger) *AuditHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditHandler{audit: audit, logger: logger}
}

// Handle appends the event to the audit trail.
func (h *AuditHandler) Handle(ctx context.Context, event DomainEvent) error {
	if h.audit == nil {
		return nil
	}
	if err := h.audit.Log(event.EventType(), event.ActorName(), event.Metadata()); err != nil {
		h.logger.ErrorContext(ctx, "failed to record audit event",
			"event_type", event.EventType(),
			"story_id", event.AggregateID(),
			"error", err)
		return err
	}
	return nil
}

// RegisterDefaults wires the logging and audit handlers for all events.
func RegisterDefaults(d *Dispatcher, audit domain.AuditLogger, logger *slog.Logger) {
	d.RegisterWildcard("logging", NewLoggingHandler(logger).Handle)
	d.RegisterWildcard("audit", NewAuditHandler(audit, logger).Handle)
}
