package editor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/storyreview/pkg/domain/editor"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Line one\n\nLine two", []string{"Line one", "Line two"}},
		{"  a  \r\n b\r\n\r\n", []string{"a", "b"}},
		{"\n \n\t\n", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := editor.ParseCriteria(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseCriteria(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"UI, , Backend ,UI", []string{"UI", "Backend", "UI"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"Mobile", []string{"Mobile"}},
	}
	for _, tt := range tests {
		got := editor.ParseTags(tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseTags(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func validForm() editor.Form {
	return editor.Form{
		Title:       " Sign in ",
		UserStory:   "As a user, I want to sign in.",
		Criteria:    "Line one\n\nLine two",
		StoryPoints: "5",
		Priority:    "high",
		Tags:        "UI, , Backend ,UI",
	}
}

func TestApply(t *testing.T) {
	base := story.Story{
		ID:           "3",
		Title:        "Old",
		Status:       story.StatusPublished,
		PublishedID:  "WI-234",
		PublishedURL: "https://example/234",
		Version:      4,
	}

	got, err := editor.Apply(base, validForm())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := story.Story{
		ID:                 "3",
		Title:              "Sign in",
		UserStory:          "As a user, I want to sign in.",
		AcceptanceCriteria: []string{"Line one", "Line two"},
		StoryPoints:        5,
		Priority:           story.PriorityHigh,
		Tags:               []string{"UI", "Backend", "UI"},
		Status:             story.StatusPublished,
		PublishedID:        "WI-234",
		PublishedURL:       "https://example/234",
		Version:            4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
	if base.Title != "Old" {
		t.Error("Apply modified its base")
	}
}

func TestApply_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*editor.Form)
		fields []string
	}{
		{"missing title", func(f *editor.Form) { f.Title = "" }, []string{"title"}},
		{"blank title", func(f *editor.Form) { f.Title = "   " }, []string{"title"}},
		{"missing user story", func(f *editor.Form) { f.UserStory = "" }, []string{"userStory"}},
		{"only blank criteria", func(f *editor.Form) { f.Criteria = "\n  \n" }, []string{"acceptanceCriteria"}},
		{"missing points", func(f *editor.Form) { f.StoryPoints = "" }, []string{"storyPoints"}},
		{"points outside the scale", func(f *editor.Form) { f.StoryPoints = "13" }, []string{"storyPoints"}},
		{"missing priority", func(f *editor.Form) { f.Priority = "" }, []string{"priority"}},
		{"unknown priority", func(f *editor.Form) { f.Priority = "Urgent" }, []string{"priority"}},
		{"everything empty", func(f *editor.Form) { *f = editor.Form{} },
			[]string{"title", "userStory", "acceptanceCriteria", "storyPoints", "priority"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			_, err := editor.Apply(story.Story{ID: "1"}, f)
			if !errors.Is(err, story.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			var ve *story.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if len(ve.Fields) != len(tt.fields) {
				t.Errorf("fields = %v, want %v", ve.Fields, tt.fields)
			}
			for _, field := range tt.fields {
				if _, ok := ve.Fields[field]; !ok {
					t.Errorf("missing field %q in %v", field, ve.Fields)
				}
			}
		})
	}
}

func TestApply_EmptyTagsAllowed(t *testing.T) {
	f := validForm()
	f.Tags = ""
	got, err := editor.Apply(story.Story{}, f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want none", got.Tags)
	}
}

func TestFormFromRoundTrip(t *testing.T) {
	s := story.Story{
		ID:                 "1",
		Title:              "Search",
		UserStory:          "As a member, I want search.",
		AcceptanceCriteria: []string{"Keywords", "Highlights"},
		StoryPoints:        8,
		Priority:           story.PriorityMedium,
		Tags:               []string{"Backend", "Search"},
		Status:             story.StatusApproved,
	}
	got, err := editor.Apply(s, editor.FormFrom(s))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNewAndBlank(t *testing.T) {
	f := editor.Blank()
	if f.StoryPoints != "3" || f.Priority != "Medium" {
		t.Errorf("blank defaults = %+v", f)
	}
	f.Title = "T"
	f.UserStory = "U"
	f.Criteria = "C"
	s, err := editor.New(f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.ID != "" || s.Status != story.StatusNew || s.StoryPoints != 3 {
		t.Errorf("unexpected candidate: %+v", s)
	}
}
