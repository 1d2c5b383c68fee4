package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

func TestCLIError(t *testing.T) {
	t.Run("Error with cause", func(t *testing.T) {
		cause := errors.New("root cause")
		e := NewCLIError("something failed", "try this", cause)
		if e.Error() != "something failed: root cause" {
			t.Fatalf("unexpected: %s", e.Error())
		}
		if e.ExitCode != 1 {
			t.Fatalf("expected exit code 1, got %d", e.ExitCode)
		}
	})

	t.Run("Error without cause", func(t *testing.T) {
		e := NewCLIError("something failed", "try this", nil)
		if e.Error() != "something failed" {
			t.Fatalf("unexpected: %s", e.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root")
		e := NewCLIError("msg", "", cause)
		if !errors.Is(e, cause) {
			t.Fatal("errors.Is should match wrapped cause")
		}
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantHint string
		wantCLI  bool
	}{
		{
			name: "nil returns nil",
			err:  nil,
		},
		{
			name:     "already published",
			err:      &story.AlreadyPublishedError{ID: "3", PublishedID: "WI-234"},
			wantMsg:  "story already published",
			wantHint: "WI-234",
			wantCLI:  true,
		},
		{
			name:     "conflict",
			err:      &story.ConflictError{ID: "1", Expected: 1, Actual: 2},
			wantMsg:  "story changed since it was read",
			wantHint: "version 2",
			wantCLI:  true,
		},
		{
			name:     "story not found",
			err:      fmt.Errorf("get: %w", &story.NotFoundError{ID: "9"}),
			wantMsg:  "story not found",
			wantHint: "stories list",
			wantCLI:  true,
		},
		{
			name:     "validation",
			err:      story.NewValidationError("meetingId", "must be at least 8 characters"),
			wantMsg:  "invalid input",
			wantHint: "--help",
			wantCLI:  true,
		},
		{
			name:     "unavailable",
			err:      &story.UnavailableError{Op: "publish story 1", Message: "down"},
			wantMsg:  "backend unavailable",
			wantHint: "base_url",
			wantCLI:  true,
		},
		{
			name: "route not found passes through",
			err:  &story.NotFoundError{Kind: "route", ID: "/api/nope"},
		},
		{
			name: "unknown error passes through",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			var cliErr *CLIError
			isCLI := errors.As(got, &cliErr)
			if isCLI != tt.wantCLI {
				t.Fatalf("CLIError = %v, want %v (%v)", isCLI, tt.wantCLI, got)
			}
			if !tt.wantCLI {
				if got != tt.err {
					t.Fatalf("expected error unchanged, got %v", got)
				}
				return
			}
			if cliErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", cliErr.Message, tt.wantMsg)
			}
			if !strings.Contains(cliErr.Hint, tt.wantHint) {
				t.Errorf("hint = %q, want it to contain %q", cliErr.Hint, tt.wantHint)
			}
			if !errors.Is(got, tt.err) {
				t.Error("mapped error should wrap the original")
			}
		})
	}
}
