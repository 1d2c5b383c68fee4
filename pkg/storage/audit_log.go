package storage

import (
	"sync"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
)

// MemoryAuditLog keeps the audit trail of a session in memory.
type MemoryAuditLog struct {
	mu     sync.RWMutex
	events []domain.Event
}

var _ domain.AuditRepository = (*MemoryAuditLog)(nil)

// NewMemoryAuditLog creates an empty audit log.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

// Append adds an event to the end of the log.
func (l *MemoryAuditLog) Append(event domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

// Events returns a copy of the log in append order.
func (l *MemoryAuditLog) Events() ([]domain.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out, nil
}
