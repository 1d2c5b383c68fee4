package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var published *story.AlreadyPublishedError
	if errors.As(err, &published) {
		hint := "Published stories are final"
		if published.PublishedID != "" {
			hint = fmt.Sprintf("Story '%s' is work item %s; change it in the tracker", published.ID, published.PublishedID)
		}
		return NewCLIError("story already published", hint, err)
	}

	var conflict *story.ConflictError
	if errors.As(err, &conflict) {
		return NewCLIError("story changed since it was read",
			fmt.Sprintf("Run 'storyreview stories get %s' and retry with version %d", conflict.ID, conflict.Actual), err)
	}

	var notFound *story.NotFoundError
	if errors.As(err, &notFound) && notFound.Kind != "route" {
		return NewCLIError("story not found", "Run 'storyreview stories list' to see the available stories", err)
	}

	switch {
	case errors.Is(err, story.ErrValidation):
		return NewCLIError("invalid input", "Check the flags against 'storyreview <command> --help'", err)
	case errors.Is(err, story.ErrUnavailable):
		return NewCLIError("backend unavailable", "Check the remote base_url and tracker settings in storyreview.yaml", err)
	case errors.Is(err, story.ErrInvalidTransition):
		return NewCLIError("transition not allowed", "Only New, Approved and Rejected stories can be reviewed", err)
	}

	return err
}
