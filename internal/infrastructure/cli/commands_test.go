package cli

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

func TestStoriesList(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "stories", "list")
	if err != nil {
		t.Fatalf("stories list: %v", err)
	}
	for _, want := range []string{"Stories (5)", "User Authentication for Mobile App", "[Published]", "Dashboard Analytics"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStoriesList_FilteredJSON(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "stories", "list", "--status", "new", "-o", "json")
	if err != nil {
		t.Fatalf("stories list: %v", err)
	}
	var stories []story.Story
	if err := json.Unmarshal([]byte(out), &stories); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(stories) != 2 || stories[0].ID != "1" || stories[1].ID != "5" {
		t.Fatalf("unexpected stories: %+v", stories)
	}
	for _, s := range stories {
		if s.Status != story.StatusNew {
			t.Errorf("story %s has status %s", s.ID, s.Status)
		}
	}
}

func TestStoriesList_Errors(t *testing.T) {
	withTempDir(t)

	if _, err := runCLI(t, "stories", "list", "--status", "pending"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := runCLI(t, "stories", "list", "-o", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStoriesGet(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "stories", "get", "3")
	if err != nil {
		t.Fatalf("stories get: %v", err)
	}
	if !strings.Contains(out, "Integration with Azure DevOps") || !strings.Contains(out, "WI-234") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "stories", "get", "2", "-o", "yaml")
	if err != nil {
		t.Fatalf("stories get yaml: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if doc["title"] != "Meeting Transcript Search" || doc["status"] != "Approved" {
		t.Errorf("unexpected yaml document: %v", doc)
	}
}

func TestStoriesGet_NotFound(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "stories", "get", "404")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.Message != "story not found" {
		t.Fatalf("err = %v, want story not found", err)
	}
}

func TestStoriesStats(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "stories", "stats", "-o", "json")
	if err != nil {
		t.Fatalf("stories stats: %v", err)
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(out), &counts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int{"all": 5, "new": 2, "approved": 1, "rejected": 1, "published": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s = %d, want %d", k, counts[k], v)
		}
	}
}

func TestReviewCommands(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "approve", "1", "5")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !strings.Contains(out, "✓ 1 approved") || !strings.Contains(out, "✓ 5 approved") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "publish", "2")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !strings.Contains(out, "✓ 2 published as WI-1000") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReviewCommands_PartialFailure(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "reject", "4", "3", "404")
	if err == nil {
		t.Fatal("expected error when some stories fail")
	}
	if !strings.Contains(err.Error(), "2 of 3 stories could not be rejected") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "✓ 4 rejected") || !strings.Contains(out, "✗ 3:") || !strings.Contains(out, "✗ 404:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReviewCommands_SingleFailureIsMapped(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "approve", "3")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.Message != "story already published" {
		t.Fatalf("err = %v, want already published", err)
	}
	if !errors.Is(err, story.ErrAlreadyPublished) {
		t.Error("expected the domain error to be wrapped")
	}
}

func TestEdit(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "edit", "1", "--title", "Mobile sign-in", "--criteria", "Works offline", "--criteria", "Uses SSO", "--points", "8", "--tags", "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	for _, want := range []string{"Story 1 updated (version 2)", "Mobile sign-in", "Points:   8", "- Works offline", "- Uses SSO"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Tags:") {
		t.Errorf("tags should have been cleared:\n%s", out)
	}
}

func TestEdit_Invalid(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "edit", "1", "--points", "13")
	if !errors.Is(err, story.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestSubmit(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "submit", "short")
	if !errors.Is(err, story.ErrValidation) {
		t.Fatalf("err = %v, want validation error for a short meeting id", err)
	}

	out, err := runCLI(t, "submit", "meeting-2024-01", "-o", "json")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	var stories []story.Story
	if err := json.Unmarshal([]byte(out), &stories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stories) != 5 || stories[0].ID != "6" || stories[0].Status != story.StatusNew {
		t.Errorf("unexpected generated stories: %+v", stories)
	}
}

func TestTranscript(t *testing.T) {
	withTempDir(t)

	out, err := runCLI(t, "transcript", "meeting-2024-01")
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if !strings.Contains(out, "Sprint Planning Meeting (meeting-2024-01)") || !strings.Contains(out, "John Smith:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func writeTranscriptFile(t *testing.T, path, meetingID string) {
	t.Helper()
	data, err := json.Marshal(transcript.Sample(meetingID, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
}

func TestProcess(t *testing.T) {
	dir := withTempDir(t)
	path := filepath.Join(dir, "planning.json")
	writeTranscriptFile(t, path, "meeting-2024-01")

	out, err := runCLI(t, "process", path)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(out, "Stories from meeting meeting-2024-01 (5)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "process", bad); !errors.Is(err, story.ErrValidation) {
		t.Errorf("err = %v, want validation error for malformed JSON", err)
	}
}

func TestInboxOnce(t *testing.T) {
	dir := withTempDir(t)
	inbox := filepath.Join(dir, "inbox")
	if err := os.Mkdir(inbox, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTranscriptFile(t, filepath.Join(inbox, "a.json"), "meeting-aaaaaaaa")
	writeTranscriptFile(t, filepath.Join(inbox, "b.json"), "meeting-bbbbbbbb")

	out, err := runCLI(t, "inbox", inbox, "--once")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if !strings.Contains(out, "2 transcripts processed, 0 failed") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(inbox, "processed", "a.json")); err != nil {
		t.Errorf("a.json not archived: %v", err)
	}
}

func TestInbox_NoDirectory(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "inbox", "--once")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.Message != "no inbox directory" {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := withTempDir(t)

	out, err := runCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "storyreview.yaml") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "storyreview.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := runCLI(t, "config", "init"); err == nil {
		t.Error("expected error when the file exists")
	}
	if _, err := runCLI(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	t.Setenv("GITHUB_TOKEN", "secret-token")
	out, err = runCLI(t, "config", "show", "--data-source", "remote")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "data_source: remote") {
		t.Errorf("flag override not applied:\n%s", out)
	}
	if strings.Contains(out, "secret-token") {
		t.Errorf("token not masked:\n%s", out)
	}
}

func TestDataSourceFlag_Invalid(t *testing.T) {
	withTempDir(t)

	if _, err := runCLI(t, "stories", "list", "--data-source", "sql"); err == nil {
		t.Fatal("expected error for an unknown data source")
	}
}

func TestNotify(t *testing.T) {
	dir := withTempDir(t)

	out, err := runCLI(t, "notify", "list")
	if err != nil {
		t.Fatalf("notify list: %v", err)
	}
	if !strings.Contains(out, "No notification channels configured.") {
		t.Errorf("unexpected output: %s", out)
	}

	received := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		_ = json.Unmarshal(body, &payload)
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := "notify:\n  adapters:\n    - name: ops\n      type: webhook\n      url: " + srv.URL + "\n      enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "storyreview.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, "notify", "list")
	if err != nil {
		t.Fatalf("notify list: %v", err)
	}
	if !strings.Contains(out, "ops") || !strings.Contains(out, "disabled") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = runCLI(t, "notify", "test", "ops")
	if err != nil {
		t.Fatalf("notify test: %v", err)
	}
	if !strings.Contains(out, "Test event sent to ops") {
		t.Errorf("unexpected output: %s", out)
	}
	select {
	case payload := <-received:
		if payload["event_type"] != TestEventType {
			t.Errorf("payload = %v", payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not called")
	}

	if _, err := runCLI(t, "notify", "test", "missing"); err == nil {
		t.Error("expected error for an unknown channel")
	}
}

func TestTrackerCheck_MissingBinary(t *testing.T) {
	dir := withTempDir(t)

	_, err := runCLI(t, "tracker", "check", filepath.Join(dir, "no-such-plugin"))
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || cliErr.Message != "failed to start plugin" {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenAPI(t *testing.T) {
	dir := withTempDir(t)

	out, err := runCLI(t, "openapi")
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	if !strings.Contains(out, "storyreview_list_stories") {
		t.Errorf("document does not list the tools:\n%s", out)
	}

	file := filepath.Join(dir, "openapi.json")
	if _, err := runCLI(t, "openapi", "-f", file); err != nil {
		t.Fatalf("openapi -f: %v", err)
	}
	data, err := os.ReadFile(file)
	if err != nil || !json.Valid(data) {
		t.Errorf("invalid document written: %v", err)
	}
}

func TestMCP_UnsupportedTransport(t *testing.T) {
	withTempDir(t)

	if _, err := runCLI(t, "mcp", "--transport", "carrier-pigeon"); err == nil {
		t.Fatal("expected error for an unsupported transport")
	}
}

func TestServe_RejectsRemoteDataSource(t *testing.T) {
	withTempDir(t)

	_, err := runCLI(t, "serve", "--data-source", "remote")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !strings.Contains(cliErr.Message, "mock data source") {
		t.Fatalf("err = %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "storyreview "+Version) || !strings.Contains(out, "commit: "+Commit) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestBoard_SkipRun(t *testing.T) {
	t.Setenv("STORYREVIEW_SKIP_BOARD_RUN", "true")
	if _, err := runCLI(t, "board"); err != nil {
		t.Fatalf("board: %v", err)
	}
}
