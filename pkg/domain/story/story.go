// Package story holds the story record, its review status and the
// transitions a reviewer can apply to it.
package story

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Story is a unit of product work derived from a meeting transcript.
type Story struct {
	ID                 string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title              string   `json:"title" yaml:"title"`
	UserStory          string   `json:"userStory" yaml:"user_story"`
	AcceptanceCriteria []string `json:"acceptanceCriteria" yaml:"acceptance_criteria"`
	StoryPoints        Points   `json:"storyPoints" yaml:"story_points"`
	Priority           Priority `json:"priority" yaml:"priority"`
	Tags               []string `json:"tags" yaml:"tags"`
	Status             Status   `json:"status" yaml:"status"`
	PublishedID        string   `json:"publishedId,omitempty" yaml:"published_id,omitempty"`
	PublishedURL       string   `json:"publishedUrl,omitempty" yaml:"published_url,omitempty"`
	Version            int      `json:"version,omitempty" yaml:"version,omitempty"`
}

// WorkItem is the tracker's reference for a published story.
type WorkItem struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Clone returns a deep copy of the story.
func (s Story) Clone() Story {
	out := s
	if s.AcceptanceCriteria != nil {
		out.AcceptanceCriteria = append([]string(nil), s.AcceptanceCriteria...)
	}
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	return out
}

// ApplyEdit copies the mutable fields of candidate onto s. Identity, status,
// publish data and version are left untouched.
func (s *Story) ApplyEdit(candidate Story) {
	c := candidate.Clone()
	s.Title = c.Title
	s.UserStory = c.UserStory
	s.AcceptanceCriteria = c.AcceptanceCriteria
	s.StoryPoints = c.StoryPoints
	s.Priority = c.Priority
	s.Tags = c.Tags
}

// MarkPublished records the tracker reference and moves the story to Published.
func (s *Story) MarkPublished(item WorkItem) {
	s.Status = StatusPublished
	s.PublishedID = item.ID
	s.PublishedURL = item.URL
}

// IsPublished reports whether the story carries tracker data.
func (s Story) IsPublished() bool {
	return s.Status == StatusPublished
}

// HasTag reports whether the story carries tag (case-insensitive).
func (s Story) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

var errBlankCriteria = errors.New("must contain at least one non-blank line")

// Validate checks the mutable fields and the publish invariant.
func (s Story) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required.Error("is required")),
		validation.Field(&s.UserStory, validation.Required.Error("is required")),
		validation.Field(&s.AcceptanceCriteria, validation.By(nonBlankLines)),
		validation.Field(&s.StoryPoints, validation.By(validPoints)),
		validation.Field(&s.Priority, validation.By(validPriority)),
		validation.Field(&s.Status, validation.By(validStatus)),
	)
	if err := FromValidation(err); err != nil {
		return err
	}

	published := s.PublishedID != "" || s.PublishedURL != ""
	switch {
	case s.Status == StatusPublished && (s.PublishedID == "" || s.PublishedURL == ""):
		return NewValidationError("publishedId", "published stories need an id and a url")
	case s.Status != StatusPublished && published:
		return NewValidationError("publishedId", "only published stories carry tracker data")
	}
	return nil
}

func nonBlankLines(value interface{}) error {
	lines, _ := value.([]string)
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return nil
		}
	}
	return errBlankCriteria
}

func validPoints(value interface{}) error {
	p, _ := value.(Points)
	if p == 0 {
		return errors.New("is required")
	}
	if !p.IsValid() {
		return errors.New("must be one of 1, 2, 3, 5, 8")
	}
	return nil
}

func validPriority(value interface{}) error {
	p, _ := value.(Priority)
	if p == "" {
		return errors.New("is required")
	}
	if !p.IsValid() {
		return errors.New("must be High, Medium or Low")
	}
	return nil
}

func validStatus(value interface{}) error {
	st, _ := value.(Status)
	if !st.IsValid() {
		return errors.New("is not a known status")
	}
	return nil
}
