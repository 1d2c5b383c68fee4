package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/storyreview/pkg/domain"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
	"github.com/felixgeelhaar/storyreview/pkg/domain/transcript"
)

// maxBodySize bounds the response bodies the client reads.
const maxBodySize = 4 << 20

// Client talks to a storyreview server over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

var (
	_ domain.StoryRepository  = (*Client)(nil)
	_ domain.IngestionBackend = (*Client)(nil)
)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", baseURL)
	}

	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Client{baseURL: u, http: o.httpClient, timeout: o.timeout, userAgent: o.userAgent}, nil
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// --- Stories ---

// List returns all stories in server order.
func (c *Client) List(ctx context.Context) ([]story.Story, error) {
	var out []story.Story
	if err := c.do(ctx, "list stories", "", http.MethodGet, "/api/stories", nil, &out, storiesSchemaLoader); err != nil {
		return nil, err
	}
	if out == nil {
		out = []story.Story{}
	}
	return out, nil
}

// Get returns one story.
func (c *Client) Get(ctx context.Context, id string) (*story.Story, error) {
	var out story.Story
	if err := c.do(ctx, "get story "+id, id, http.MethodGet, storyPath(id, ""), nil, &out, storySchemaLoader); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the mutable fields of a story.
func (c *Client) Update(ctx context.Context, s story.Story) (*story.Story, error) {
	var out story.Story
	if err := c.do(ctx, "update story "+s.ID, s.ID, http.MethodPut, storyPath(s.ID, ""), s, &out, storySchemaLoader); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve moves a story to Approved.
func (c *Client) Approve(ctx context.Context, id string) (*story.Story, error) {
	return c.transition(ctx, id, "approve")
}

// Reject moves a story to Rejected.
func (c *Client) Reject(ctx context.Context, id string) (*story.Story, error) {
	return c.transition(ctx, id, "reject")
}

// Publish asks the server to create the work item and publish the story.
func (c *Client) Publish(ctx context.Context, id string) (*story.Story, error) {
	return c.transition(ctx, id, "publish")
}

func (c *Client) transition(ctx context.Context, id, action string) (*story.Story, error) {
	var out story.Story
	if err := c.do(ctx, action+" story "+id, id, http.MethodPost, storyPath(id, action), nil, &out, storySchemaLoader); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Ingestion ---

// SubmitMeeting asks the server to generate stories from a meeting.
func (c *Client) SubmitMeeting(ctx context.Context, meetingID string) ([]story.Story, error) {
	var out []story.Story
	err := c.do(ctx, "submit meeting "+meetingID, "", http.MethodPost, "/api/ingest",
		IngestRequest{MeetingID: meetingID}, &out, storiesSchemaLoader)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchTranscript returns the transcript of a meeting.
func (c *Client) FetchTranscript(ctx context.Context, meetingID string) (*transcript.Transcript, error) {
	var out transcript.Transcript
	err := c.do(ctx, "fetch transcript "+meetingID, meetingID, http.MethodGet,
		"/api/transcript/"+url.PathEscape(meetingID), nil, &out, nil)
	if err != nil {
		var nfe *story.NotFoundError
		if errors.As(err, &nfe) {
			nfe.Kind = "transcript"
		}
		return nil, err
	}
	return &out, nil
}

// ProcessTranscript asks the server to generate stories from a transcript.
func (c *Client) ProcessTranscript(ctx context.Context, t *transcript.Transcript) ([]story.Story, error) {
	var out []story.Story
	err := c.do(ctx, "process transcript "+t.MeetingID, "", http.MethodPost, "/api/process-transcript",
		t, &out, storiesSchemaLoader)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports whether the server is up.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, "health", "", http.MethodGet, "/healthz", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Transport ---

type rawResponse struct {
	status int
	body   []byte
}

// do sends one request bounded by the client timeout and decodes the result
// into out. Non-2xx responses become domain errors.
func (c *Client) do(ctx context.Context, op, id, method, path string, in, out any, schema gojsonschema.JSONLoader) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	t := timeout.New[*rawResponse](timeout.Config{DefaultTimeout: c.timeout})
	resp, err := t.Execute(ctx, c.timeout, func(ctx context.Context) (*rawResponse, error) {
		return c.send(ctx, method, path, payload)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &story.UnavailableError{Op: op, Err: err}
	}

	if resp.status < 200 || resp.status > 299 {
		var body ErrorBody
		if jsonErr := json.Unmarshal(resp.body, &body); jsonErr != nil {
			body.Error.Message = strings.TrimSpace(string(resp.body))
		}
		return ErrorFromResponse(op, id, resp.status, body.Error)
	}

	if out == nil {
		return nil
	}
	if schema != nil {
		if err := checkSchema(schema, resp.body); err != nil {
			return &story.UnavailableError{Op: op, Message: "malformed response: " + err.Error()}
		}
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &story.UnavailableError{Op: op, Message: "malformed response: " + err.Error()}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*rawResponse, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &rawResponse{status: res.StatusCode, body: data}, nil
}

func storyPath(id, action string) string {
	p := "/api/stories/" + url.PathEscape(id)
	if action != "" {
		p += "/" + action
	}
	return p
}
