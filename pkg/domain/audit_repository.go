package domain

// AuditRepository stores the audit trail. Implementations keep events in
// append order.
type AuditRepository interface {
	Append(event Event) error
	Events() ([]Event, error)
}
