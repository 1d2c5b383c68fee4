package domain

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers. Tests inject a Sequence to get
// deterministic values.
type IDGenerator interface {
	Next() string
}

// Sequence yields "start", "start+1", ... and is safe for concurrent use.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a sequence whose first value is start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

// Next returns the next number in the sequence as a string.
func (s *Sequence) Next() string {
	return strconv.FormatInt(s.next.Add(1)-1, 10)
}

// UUIDGenerator yields random UUIDv4 strings.
type UUIDGenerator struct{}

// Next returns a new UUID.
func (UUIDGenerator) Next() string {
	return uuid.NewString()
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

// Next calls f.
func (f IDFunc) Next() string {
	return f()
}
