package story

import (
	"fmt"
	"strings"
)

// Status is the review status of a story. The zero value is StatusNew, so a
// story that was never classified is New without any special casing.
type Status int

const (
	StatusNew Status = iota
	StatusApproved
	StatusRejected
	StatusPublished
)

var statusNames = map[Status]string{
	StatusNew:       "New",
	StatusApproved:  "Approved",
	StatusRejected:  "Rejected",
	StatusPublished: "Published",
}

// AllStatuses returns all valid statuses in review order.
func AllStatuses() []Status {
	return []Status{StatusNew, StatusApproved, StatusRejected, StatusPublished}
}

// IsValid returns true if the status is one of the known statuses.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

// String returns the canonical name ("New", "Approved", ...).
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsTerminal returns true once the story has been published.
func (s Status) IsTerminal() bool {
	return s == StatusPublished
}

// CanTransitionTo reports whether a review transition may move a story from s
// to target. Staying in the same non-terminal status is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() || !target.IsValid() || target == StatusNew {
		return false
	}
	return true
}

// ValidTransitions returns the statuses reachable from s.
func (s Status) ValidTransitions() []Status {
	switch s {
	case StatusNew:
		return []Status{StatusApproved, StatusRejected, StatusPublished}
	case StatusApproved:
		return []Status{StatusRejected, StatusPublished}
	case StatusRejected:
		return []Status{StatusApproved, StatusPublished}
	default:
		return nil
	}
}

// ParseStatus parses a status name. Matching is case-insensitive and the
// empty string is New.
func ParseStatus(str string) (Status, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return StatusNew, nil
	}
	for s, name := range statusNames {
		if strings.EqualFold(name, str) {
			return s, nil
		}
	}
	return StatusNew, fmt.Errorf("invalid story status: %s", str)
}

// MustParseStatus parses a status, panicking on error. Use only in tests.
func MustParseStatus(str string) Status {
	s, err := ParseStatus(str)
	if err != nil {
		panic(err)
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid story status: %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Stored values are
// case-sensitive; an empty value decodes to New.
func (s *Status) UnmarshalText(data []byte) error {
	str := string(data)
	if str == "" {
		*s = StatusNew
		return nil
	}
	for st, name := range statusNames {
		if name == str {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("invalid story status: %s", str)
}
