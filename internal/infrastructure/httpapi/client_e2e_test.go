package httpapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/sdk"
)

// The remote repository and the server must agree on every outcome.
func TestClientAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	client, err := sdk.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	stories, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stories) != 5 {
		t.Fatalf("got %d stories, want 5", len(stories))
	}

	if _, err := client.Get(ctx, "404"); !errors.Is(err, story.ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}

	stale, err := client.Get(ctx, "5")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	approved, err := client.Approve(ctx, "5")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != story.StatusApproved {
		t.Errorf("status = %s, want Approved", approved.Status)
	}

	stale.Title = "Edited from a stale copy"
	_, err = client.Update(ctx, *stale)
	var ce *story.ConflictError
	if !errors.As(err, &ce) || ce.Expected != stale.Version || ce.Actual != approved.Version {
		t.Errorf("Update stale: err = %v, want ConflictError", err)
	}

	approved.Title = "Edited from the latest copy"
	updated, err := client.Update(ctx, *approved)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Edited from the latest copy" || updated.Status != story.StatusApproved {
		t.Errorf("updated = %+v", updated)
	}

	published, err := client.Publish(ctx, "5")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !published.IsPublished() {
		t.Errorf("published = %+v", published)
	}
	_, err = client.Reject(ctx, "5")
	var ape *story.AlreadyPublishedError
	if !errors.As(err, &ape) || ape.PublishedID != published.PublishedID {
		t.Errorf("Reject published: err = %v, want AlreadyPublishedError", err)
	}
}

func TestClientAgainstServer_Ingestion(t *testing.T) {
	srv := newTestServer(t)
	client, err := sdk.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	if _, err := client.SubmitMeeting(ctx, "1234567"); !errors.Is(err, story.ErrValidation) {
		t.Errorf("short meeting id: err = %v, want ErrValidation", err)
	}

	generated, err := client.SubmitMeeting(ctx, "meeting-2024")
	if err != nil {
		t.Fatalf("SubmitMeeting: %v", err)
	}
	if len(generated) != 5 || generated[0].ID != "6" || generated[0].Status != story.StatusNew {
		t.Errorf("generated = %+v", generated)
	}

	tr, err := client.FetchTranscript(ctx, "meeting-2024")
	if err != nil {
		t.Fatalf("FetchTranscript: %v", err)
	}
	if tr.MeetingID != "meeting-2024" || len(tr.Segments) == 0 {
		t.Errorf("transcript = %+v", tr)
	}

	more, err := client.ProcessTranscript(ctx, tr)
	if err != nil {
		t.Fatalf("ProcessTranscript: %v", err)
	}
	if len(more) != 5 || more[0].ID != "11" {
		t.Errorf("processed = %+v", more)
	}

	all, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 15 {
		t.Errorf("got %d stories after ingestion, want 15", len(all))
	}

	h, err := client.Health(ctx)
	if err != nil || h.DataSource != "mock" {
		t.Errorf("Health = %+v, %v", h, err)
	}
}
