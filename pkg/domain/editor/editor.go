// Package editor turns raw edit input into candidate stories.
package editor

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Form is the raw input of the story edit form. Criteria holds one criterion
// per line, Tags a comma separated list.
type Form struct {
	Title       string `json:"title"`
	UserStory   string `json:"userStory"`
	Criteria    string `json:"acceptanceCriteria"`
	StoryPoints string `json:"storyPoints"`
	Priority    string `json:"priority"`
	Tags        string `json:"tags"`
}

// FormFrom pre-fills a form with the current values of s.
func FormFrom(s story.Story) Form {
	points := ""
	if s.StoryPoints != 0 {
		points = strconv.Itoa(int(s.StoryPoints))
	}
	return Form{
		Title:       s.Title,
		UserStory:   s.UserStory,
		Criteria:    strings.Join(s.AcceptanceCriteria, "\n"),
		StoryPoints: points,
		Priority:    string(s.Priority),
		Tags:        strings.Join(s.Tags, ", "),
	}
}

// Blank returns the form for a story that has not been written yet.
func Blank() Form {
	return Form{
		StoryPoints: strconv.Itoa(int(story.DefaultPoints)),
		Priority:    string(story.DefaultPriority),
	}
}

// ParseCriteria splits text on line breaks, drops blank lines and keeps order.
func ParseCriteria(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ParseTags splits text on commas and trims each tag. Empty tags are dropped;
// duplicates are kept.
func ParseTags(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every field that is missing or malformed.
func (f Form) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("is required"), notBlank),
		validation.Field(&f.UserStory, validation.Required.Error("is required"), notBlank),
		validation.Field(&f.Criteria, validation.By(hasCriteria)),
		validation.Field(&f.StoryPoints, validation.Required.Error("is required"), validation.By(validPoints)),
		validation.Field(&f.Priority, validation.Required.Error("is required"), validation.By(validPriority)),
	)
}

// Apply validates the form and returns base with its mutable fields replaced.
// Nothing is persisted; the result is a candidate for the repository's Update.
func Apply(base story.Story, f Form) (story.Story, error) {
	if err := f.Validate(); err != nil {
		return story.Story{}, story.FromValidation(err)
	}

	points, _ := story.ParsePoints(f.StoryPoints)
	priority, _ := story.ParsePriority(f.Priority)

	out := base.Clone()
	out.ApplyEdit(story.Story{
		Title:              strings.TrimSpace(f.Title),
		UserStory:          strings.TrimSpace(f.UserStory),
		AcceptanceCriteria: ParseCriteria(f.Criteria),
		StoryPoints:        points,
		Priority:           priority,
		Tags:               ParseTags(f.Tags),
	})
	return out, nil
}

// New builds a candidate story with no identity, in status New.
func New(f Form) (story.Story, error) {
	return Apply(story.Story{Status: story.StatusNew}, f)
}

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
})

func hasCriteria(value interface{}) error {
	s, _ := value.(string)
	if len(ParseCriteria(s)) == 0 {
		return errors.New("at least one acceptance criterion is required")
	}
	return nil
}

func validPoints(value interface{}) error {
	s, _ := value.(string)
	if _, err := story.ParsePoints(s); err != nil {
		return errors.New("must be one of 1, 2, 3, 5, 8")
	}
	return nil
}

func validPriority(value interface{}) error {
	s, _ := value.(string)
	if _, err := story.ParsePriority(s); err != nil {
		return errors.New("must be High, Medium or Low")
	}
	return nil
}
