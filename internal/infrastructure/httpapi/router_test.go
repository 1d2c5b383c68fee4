package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/httpapi"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/tracker"
	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/sdk"
	"github.com/felixgeelhaar/storyreview/pkg/storage"
)

const testOrigin = "http://localhost:4200"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := storage.NewMemoryRepository(tracker.NewPlaceholder("https://tracker.example/", "", nil))
	reviews := application.NewReviewService(repo, nil, "tester", logger)
	ingestion := application.NewIngestionService(storage.NewMockIngestion(repo, nil), nil, "tester", logger)

	h := httpapi.NewHandlers(reviews, ingestion, "mock")
	srv := httptest.NewServer(httpapi.NewRouter(h, []string{testOrigin}, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) sdk.ErrorDetail {
	t.Helper()

	var body sdk.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h sdk.Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Status != "ok" || h.DataSource != "mock" {
		t.Errorf("health = %+v", h)
	}
}

func TestListStories_StatusFilter(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/stories?status=approved", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var stories []story.Story
	if err := json.NewDecoder(resp.Body).Decode(&stories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stories) != 1 || stories[0].ID != "2" {
		t.Errorf("approved stories = %+v", stories)
	}
}

func TestListStories_UnknownStatus(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/stories?status=archived", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if d := decodeError(t, resp); d.Kind != sdk.KindValidation {
		t.Errorf("kind = %q", d.Kind)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/stories/404", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if d := decodeError(t, resp); d.Kind != sdk.KindNotFound {
		t.Errorf("kind = %q", d.Kind)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/nothing-here", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if d := decodeError(t, resp); !strings.Contains(d.Message, "route") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestPublishTwice(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/stories/1/publish", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first publish status = %d", resp.StatusCode)
	}
	var published story.Story
	if err := json.NewDecoder(resp.Body).Decode(&published); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if published.PublishedID != "WI-1000" || published.PublishedURL != "https://tracker.example/1000" {
		t.Errorf("published = %+v", published)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/stories/1/publish", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second publish status = %d, want 409", resp.StatusCode)
	}
	d := decodeError(t, resp)
	if d.Kind != sdk.KindAlreadyPublished || d.PublishedID != "WI-1000" {
		t.Errorf("error = %+v", d)
	}
}

func TestUpdateStory_BadInput(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title":`},
		{"id mismatch", `{"id":"2","title":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPut, srv.URL+"/api/stories/1", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if d := decodeError(t, resp); d.Kind != sdk.KindValidation || len(d.Fields) == 0 {
				t.Errorf("error = %+v", d)
			}
		})
	}
}

func TestIngest_ShortMeetingID(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/ingest", `{"meetingId":"short"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if d := decodeError(t, resp); d.Fields["meetingId"] == "" {
		t.Errorf("fields = %v", d.Fields)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/stories/1", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != testOrigin {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
