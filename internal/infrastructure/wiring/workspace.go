package wiring

import (
	"log/slog"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/sse"
	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
	"github.com/felixgeelhaar/storyreview/pkg/storage"
)

// Workspace bundles the session-scoped infrastructure shared by all services.
type Workspace struct {
	AuditLog   *storage.MemoryAuditLog
	Audit      *application.AuditService
	Dispatcher *events.Dispatcher
	Stream     *sse.Broker
}

// NewWorkspace creates an empty audit trail and a dispatcher that logs every
// domain event, records it in the trail and streams it to SSE clients. A
// failing handler does not stop the others.
func NewWorkspace(logger *slog.Logger) *Workspace {
	log := storage.NewMemoryAuditLog()
	audit := application.NewAuditService(log)

	dispatcher := events.NewDispatcher()
	dispatcher.ContinueOnError = true
	events.RegisterDefaults(dispatcher, audit, logger)

	stream := sse.NewBroker()
	stream.Attach(dispatcher)

	return &Workspace{
		AuditLog:   log,
		Audit:      audit,
		Dispatcher: dispatcher,
		Stream:     stream,
	}
}
