package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
	"github.com/felixgeelhaar/storyreview/pkg/sdk"
)

// Empty is the input of handlers that take no request body.
type Empty struct{}

// Handlers exposes the review and ingestion services over HTTP.
type Handlers struct {
	reviews    *application.ReviewService
	ingestion  *application.IngestionService
	dataSource string
	stream     http.Handler
}

func NewHandlers(reviews *application.ReviewService, ingestion *application.IngestionService, dataSource string) *Handlers {
	return &Handlers{
		reviews:    reviews,
		ingestion:  ingestion,
		dataSource: dataSource,
	}
}

// WithEventStream serves the story event stream at /api/events.
func (h *Handlers) WithEventStream(stream http.Handler) *Handlers {
	h.stream = stream
	return h
}

// ListStories returns the stories matching the optional status query parameter.
func (h *Handlers) ListStories(ctx context.Context, r *http.Request, _ Empty) ([]story.Story, error) {
	sel, err := review.ParseSelector(r.URL.Query().Get("status"))
	if err != nil {
		return nil, err
	}

	return h.reviews.List(ctx, sel)
}

func (h *Handlers) GetStory(ctx context.Context, r *http.Request, _ Empty) (*story.Story, error) {
	return h.reviews.Get(ctx, chi.URLParam(r, "id"))
}

// UpdateStory replaces the mutable fields of the story named in the path.
func (h *Handlers) UpdateStory(ctx context.Context, r *http.Request, in story.Story) (*story.Story, error) {
	id := chi.URLParam(r, "id")
	if in.ID != "" && in.ID != id {
		return nil, story.NewValidationError("id", "does not match the story in the path")
	}
	in.ID = id

	return h.reviews.Update(ctx, in)
}

func (h *Handlers) ApproveStory(ctx context.Context, r *http.Request, _ Empty) (*story.Story, error) {
	return h.reviews.Approve(ctx, chi.URLParam(r, "id"))
}

func (h *Handlers) RejectStory(ctx context.Context, r *http.Request, _ Empty) (*story.Story, error) {
	return h.reviews.Reject(ctx, chi.URLParam(r, "id"))
}

func (h *Handlers) PublishStory(ctx context.Context, r *http.Request, _ Empty) (*story.Story, error) {
	return h.reviews.Publish(ctx, chi.URLParam(r, "id"))
}

func (h *Handlers) Ingest(ctx context.Context, _ *http.Request, in sdk.IngestRequest) ([]story.Story, error) {
	return h.ingestion.Submit(ctx, in.MeetingID)
}

func (h *Handlers) GetTranscript(ctx context.Context, r *http.Request, _ Empty) (*transcript.Transcript, error) {
	return h.ingestion.Transcript(ctx, chi.URLParam(r, "meetingId"))
}

func (h *Handlers) ProcessTranscript(ctx context.Context, _ *http.Request, in transcript.Transcript) ([]story.Story, error) {
	return h.ingestion.Process(ctx, &in)
}

func (h *Handlers) Health(_ context.Context, _ *http.Request, _ Empty) (sdk.Health, error) {
	return sdk.Health{Status: "ok", DataSource: h.dataSource}, nil
}
