package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain/editor"
	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

type Server struct {
	mcpServer *mcp.Server
	reviewSvc *application.ReviewService
	ingestSvc *application.IngestionService
	auditSvc  *application.AuditService
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// friendlyErr keeps the domain message of expected failures and hides the
// details of everything else.
func friendlyErr(action string, err error) error {
	switch {
	case errors.Is(err, story.ErrValidation),
		errors.Is(err, story.ErrNotFound),
		errors.Is(err, story.ErrAlreadyPublished),
		errors.Is(err, story.ErrConflict),
		errors.Is(err, story.ErrInvalidTransition),
		errors.Is(err, story.ErrUnavailable):
		return mcpErr(fmt.Sprintf("Failed to %s: %s", action, err))
	}
	return mcpErr(fmt.Sprintf("Failed to %s.", action))
}

func NewServer(services *wiring.AppServices) (*Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services initialization returned nil")
	}

	info := mcp.ServerInfo{
		Name:    "storyreview",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Story Review MCP Server"),
			mcp.WithDescription("Review, edit and publish user stories generated from meeting transcripts."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/storyreview"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("List stories by status, edit them, then approve, reject or publish them to the work-item tracker."),
		),
		reviewSvc: services.Review,
		ingestSvc: services.Ingestion,
		auditSvc:  services.Audit,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

type ListStoriesArgs struct {
	Status string `json:"status,omitempty" jsonschema:"description=Filter by status: all, new, approved, rejected or published (default all)"`
}

type StoryArgs struct {
	ID string `json:"id" jsonschema:"description=The ID of the story"`
}

type BatchArgs struct {
	IDs []string `json:"ids" jsonschema:"description=The IDs of the stories to act on"`
}

// FlexInt accepts both integer and string JSON values.
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(data []byte) error {
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*fi = FlexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err == nil {
			*fi = FlexInt(n)
			return nil
		}
	}
	return fmt.Errorf("expected integer or string, got %s", string(data))
}

// EditStoryArgs carries the fields to change. Omitted fields keep their
// current value; an empty tags list clears the tags.
type EditStoryArgs struct {
	ID          string   `json:"id" jsonschema:"description=The ID of the story to edit"`
	Title       string   `json:"title,omitempty" jsonschema:"description=New title"`
	UserStory   string   `json:"user_story,omitempty" jsonschema:"description=New user story sentence"`
	Criteria    []string `json:"criteria,omitempty" jsonschema:"description=Acceptance criteria, one per entry"`
	StoryPoints FlexInt  `json:"story_points,omitempty" jsonschema:"description=Story points: 1, 2, 3, 5 or 8"`
	Priority    string   `json:"priority,omitempty" jsonschema:"description=Priority: High, Medium or Low"`
	Tags        []string `json:"tags,omitempty" jsonschema:"description=Tags replacing the current ones"`
}

type SubmitMeetingArgs struct {
	MeetingID string `json:"meeting_id" jsonschema:"description=The meeting identifier (at least 8 characters)"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("storyreview_list_stories").
		Description("List user stories, optionally filtered by review status").
		Handler(s.handleListStories)

	s.mcpServer.Tool("storyreview_get_story").
		Description("Retrieve a single user story").
		Handler(s.handleGetStory)

	s.mcpServer.Tool("storyreview_stats").
		Description("Count stories per review status").
		Handler(s.handleStats)

	s.mcpServer.Tool("storyreview_approve").
		Description("Approve one or more stories").
		Handler(s.handleApprove)

	s.mcpServer.Tool("storyreview_reject").
		Description("Reject one or more stories").
		Handler(s.handleReject)

	s.mcpServer.Tool("storyreview_publish").
		Description("Publish one or more stories to the work-item tracker").
		Handler(s.handlePublish)

	s.mcpServer.Tool("storyreview_edit_story").
		Description("Edit the title, user story, acceptance criteria, points, priority or tags of a story").
		Handler(s.handleEditStory)

	s.mcpServer.Tool("storyreview_submit_meeting").
		Description("Generate stories from the transcript of a meeting").
		Handler(s.handleSubmitMeeting)

	s.mcpServer.Tool("storyreview_story_history").
		Description("Show the audit trail of a story").
		Handler(s.handleStoryHistory)
}

func (s *Server) handleListStories(ctx context.Context, args ListStoriesArgs) (any, error) {
	sel, err := review.ParseSelector(args.Status)
	if err != nil {
		return nil, friendlyErr("list stories", err)
	}
	stories, err := s.reviewSvc.List(ctx, sel)
	if err != nil {
		return nil, friendlyErr("list stories", err)
	}
	return stories, nil
}

func (s *Server) handleGetStory(ctx context.Context, args StoryArgs) (any, error) {
	if args.ID == "" {
		return nil, mcpErr("id is required")
	}
	st, err := s.reviewSvc.Get(ctx, args.ID)
	if err != nil {
		return nil, friendlyErr(fmt.Sprintf("get story '%s'", args.ID), err)
	}
	return st, nil
}

func (s *Server) handleStats(ctx context.Context, args struct{}) (any, error) {
	c, err := s.reviewSvc.Stats(ctx)
	if err != nil {
		return nil, friendlyErr("count stories", err)
	}
	return c, nil
}

// itemResult is the per-story outcome of a batch tool.
type itemResult struct {
	ID           string `json:"id"`
	Status       string `json:"status,omitempty"`
	PublishedID  string `json:"published_id,omitempty"`
	PublishedURL string `json:"published_url,omitempty"`
	Error        string `json:"error,omitempty"`
}

func (s *Server) handleApprove(ctx context.Context, args BatchArgs) (any, error) {
	return s.batch(ctx, story.EventApprove, args.IDs)
}

func (s *Server) handleReject(ctx context.Context, args BatchArgs) (any, error) {
	return s.batch(ctx, story.EventReject, args.IDs)
}

func (s *Server) handlePublish(ctx context.Context, args BatchArgs) (any, error) {
	return s.batch(ctx, story.EventPublish, args.IDs)
}

func (s *Server) batch(ctx context.Context, event story.Event, ids []string) (any, error) {
	if len(ids) == 0 {
		return nil, mcpErr("ids is required")
	}
	results := s.reviewSvc.Transition(ctx, event, ids)
	out := make([]itemResult, 0, len(results))
	for _, r := range results {
		item := itemResult{ID: r.ID}
		if r.OK() {
			item.Status = r.Story.Status.String()
			item.PublishedID = r.Story.PublishedID
			item.PublishedURL = r.Story.PublishedURL
		} else {
			item.Error = r.Err.Error()
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Server) handleEditStory(ctx context.Context, args EditStoryArgs) (any, error) {
	if args.ID == "" {
		return nil, mcpErr("id is required")
	}
	current, err := s.reviewSvc.Get(ctx, args.ID)
	if err != nil {
		return nil, friendlyErr(fmt.Sprintf("edit story '%s'", args.ID), err)
	}

	form := editor.FormFrom(*current)
	if args.Title != "" {
		form.Title = args.Title
	}
	if args.UserStory != "" {
		form.UserStory = args.UserStory
	}
	if args.Criteria != nil {
		form.Criteria = strings.Join(args.Criteria, "\n")
	}
	if args.StoryPoints != 0 {
		form.StoryPoints = strconv.Itoa(int(args.StoryPoints))
	}
	if args.Priority != "" {
		form.Priority = args.Priority
	}
	if args.Tags != nil {
		form.Tags = strings.Join(args.Tags, ",")
	}

	updated, err := s.reviewSvc.Edit(ctx, args.ID, form)
	if err != nil {
		return nil, friendlyErr(fmt.Sprintf("edit story '%s'", args.ID), err)
	}
	return updated, nil
}

func (s *Server) handleSubmitMeeting(ctx context.Context, args SubmitMeetingArgs) (any, error) {
	stories, err := s.ingestSvc.Submit(ctx, args.MeetingID)
	if err != nil {
		return nil, friendlyErr(fmt.Sprintf("process meeting '%s'", args.MeetingID), err)
	}
	return stories, nil
}

func (s *Server) handleStoryHistory(ctx context.Context, args StoryArgs) (any, error) {
	if args.ID == "" {
		return nil, mcpErr("id is required")
	}
	events, err := s.auditSvc.StoryHistory(args.ID)
	if err != nil {
		return nil, mcpErr("Failed to read the audit trail.")
	}
	if len(events) == 0 {
		return fmt.Sprintf("No recorded changes for story %s.", args.ID), nil
	}
	return events, nil
}

func (s *Server) Start() error {
	return s.StartStdio()
}

func (s *Server) StartStdio() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) StartHTTP(addr string) error {
	return s.ServeHTTP(context.Background(), addr)
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) StartWebSocket(addr string) error {
	return s.ServeWebSocket(context.Background(), addr)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}

// OpenAPI returns the OpenAPI 3.0 JSON document for this server.
func (s *Server) OpenAPI() ([]byte, error) {
	return GenerateOpenAPI(s.mcpServer)
}
