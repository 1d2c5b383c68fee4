package story

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Domain errors for story review.
var (
	// ErrValidation indicates malformed input, caught before any I/O.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an id that does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable indicates the backing service is unreachable or erroring.
	ErrUnavailable = errors.New("service unavailable")

	// ErrAlreadyPublished indicates a transition on a story that is already published.
	ErrAlreadyPublished = errors.New("story already published")

	// ErrConflict indicates an update based on a stale version of the story.
	ErrConflict = errors.New("story version conflict")

	// ErrInvalidTransition indicates the state machine refused the event.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports field-level problems with an input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is allows errors.Is to work with ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FromValidation converts an ozzo-validation result into a ValidationError.
// Errors that are not field errors are returned unchanged and nil stays nil.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			fields[field] = ferr.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// NotFoundError reports an id that does not resolve.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "story"
	}
	return fmt.Sprintf("%s %s not found", kind, e.ID)
}

// Is allows errors.Is to work with NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// UnavailableError reports a backing service failure and carries the
// upstream message so callers can surface it.
type UnavailableError struct {
	Op      string
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return ErrUnavailable.Error() + ": " + msg
	}
	return e.Op + ": " + ErrUnavailable.Error() + ": " + msg
}

// Is allows errors.Is to work with UnavailableError.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// AlreadyPublishedError reports a transition on a published story.
type AlreadyPublishedError struct {
	ID          string
	PublishedID string
}

func (e *AlreadyPublishedError) Error() string {
	if e.PublishedID == "" {
		return fmt.Sprintf("story %s is already published", e.ID)
	}
	return fmt.Sprintf("story %s is already published as %s", e.ID, e.PublishedID)
}

// Is allows errors.Is to work with AlreadyPublishedError.
func (e *AlreadyPublishedError) Is(target error) bool {
	return target == ErrAlreadyPublished
}

// ConflictError indicates the story changed since the caller read it.
type ConflictError struct {
	ID       string
	Expected int
	Actual   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("story %s changed concurrently: expected version %d, found %d", e.ID, e.Expected, e.Actual)
}

// Is allows errors.Is to work with ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// TransitionError provides details about a refused transition.
type TransitionError struct {
	ID    string
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s story %s while it is %s", e.Event, e.ID, e.From)
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
