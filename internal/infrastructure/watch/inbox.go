package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

// ProcessedDir is the subdirectory transcripts are moved to once their
// stories exist.
const ProcessedDir = "processed"

// Processor generates stories from a transcript.
type Processor interface {
	Process(ctx context.Context, t *transcript.Transcript) ([]story.Story, error)
}

// Result is the outcome of one transcript file.
type Result struct {
	Path      string
	MeetingID string
	Stories   []story.Story
	Err       error
}

// Inbox processes the transcript files dropped into a directory.
type Inbox struct {
	dir       string
	processor Processor
	filter    *PatternFilter
	debounce  time.Duration
	logger    *slog.Logger
	onResult  func(Result)
	inFlight  sync.Map
}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithPattern sets the glob transcript files must match. The default is *.json.
func WithPattern(pattern string) InboxOption {
	return func(in *Inbox) { in.filter = NewTranscriptFilter(pattern) }
}

// WithDebounce sets how long a file must stay quiet before it is read.
func WithDebounce(d time.Duration) InboxOption {
	return func(in *Inbox) { in.debounce = d }
}

func WithLogger(logger *slog.Logger) InboxOption {
	return func(in *Inbox) { in.logger = logger }
}

// WithResultHandler receives every result. It may be called concurrently.
func WithResultHandler(fn func(Result)) InboxOption {
	return func(in *Inbox) { in.onResult = fn }
}

// NewInbox creates an inbox for dir.
func NewInbox(dir string, processor Processor, opts ...InboxOption) *Inbox {
	in := &Inbox{
		dir:       dir,
		processor: processor,
		filter:    NewTranscriptFilter(""),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ProcessFile decodes the transcript at path and generates its stories. A
// processed file is moved to the processed subdirectory; a failed one stays
// where it is.
func (in *Inbox) ProcessFile(ctx context.Context, path string) Result {
	res := Result{Path: path}
	res.MeetingID, res.Stories, res.Err = in.process(ctx, path)

	if res.Err == nil {
		if err := in.archive(path); err != nil {
			in.logger.WarnContext(ctx, "failed to archive transcript", "path", path, "error", err)
		}
		in.logger.InfoContext(ctx, "transcript processed",
			"path", path, "meeting_id", res.MeetingID, "stories", len(res.Stories))
	} else {
		in.logger.ErrorContext(ctx, "transcript rejected", "path", path, "error", res.Err)
	}

	if in.onResult != nil {
		in.onResult(res)
	}
	return res
}

// ProcessPending processes path unless another goroutine already holds it or
// it has been archived meanwhile. The boolean reports whether it ran.
func (in *Inbox) ProcessPending(ctx context.Context, path string) (Result, bool) {
	if _, busy := in.inFlight.LoadOrStore(path, struct{}{}); busy {
		return Result{}, false
	}
	defer in.inFlight.Delete(path)

	if _, err := os.Stat(path); err != nil {
		return Result{}, false
	}
	return in.ProcessFile(ctx, path), true
}

func (in *Inbox) process(ctx context.Context, path string) (string, []story.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read transcript: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var t transcript.Transcript
	if err := dec.Decode(&t); err != nil {
		return "", nil, story.NewValidationError("transcript", fmt.Sprintf("malformed JSON in %s: %v", filepath.Base(path), err))
	}

	stories, err := in.processor.Process(ctx, &t)
	return t.MeetingID, stories, err
}

func (in *Inbox) archive(path string) error {
	dst := filepath.Join(in.dir, ProcessedDir)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dst, filepath.Base(path)))
}

// Drain processes the transcripts already in the directory, in name order.
// Files another goroutine is processing are skipped.
func (in *Inbox) Drain(ctx context.Context) ([]Result, error) {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && in.filter.Matches(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	results := make([]Result, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if res, ok := in.ProcessPending(ctx, filepath.Join(in.dir, name)); ok {
			results = append(results, res)
		}
	}
	return results, nil
}

// Run drains the directory and then processes every transcript written to
// it until ctx is cancelled. The directory is created when missing.
func (in *Inbox) Run(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0o755); err != nil {
		return fmt.Errorf("create inbox: %w", err)
	}

	w, err := NewFSWatcher(in.debounce, in.filter, func(e ChangeEvent) {
		if e.ChangeType != ChangeCreate && e.ChangeType != ChangeWrite {
			return
		}
		in.ProcessPending(ctx, e.Path)
	})
	if err != nil {
		return err
	}
	if err := w.Watch(in.dir); err != nil {
		return err
	}

	if _, err := in.Drain(ctx); err != nil {
		return err
	}

	in.logger.InfoContext(ctx, "watching transcript inbox", "dir", in.dir)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
