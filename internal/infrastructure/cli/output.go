package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	statusNew      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusApproved = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusRejected = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func statusStyle(s story.Status) lipgloss.Style {
	switch s {
	case story.StatusApproved:
		return statusApproved
	case story.StatusRejected:
		return statusRejected
	case story.StatusPublished:
		return statusDone
	default:
		return statusNew
	}
}

// renderStatus pads before styling so columns line up with colors on.
func renderStatus(s story.Status) string {
	return statusStyle(s).Render(fmt.Sprintf("%-11s", "["+s.String()+"]"))
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return NewCLIError(fmt.Sprintf("unknown output format %q", format), "Use text, json or yaml", nil)
}

// writeStructured prints v as JSON or YAML.
func writeStructured(format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStoryList(title string, stories []story.Story) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%d)", title, len(stories))))
	fmt.Println(strings.Repeat("-", len(title)+10))
	for _, s := range stories {
		fmt.Printf("  %-4s %s %-45s %d pts  %s\n", s.ID, renderStatus(s.Status), s.Title, s.StoryPoints, s.Priority)
	}
	if len(stories) == 0 {
		fmt.Println("  (none)")
	}
}

func printStory(s *story.Story) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Story %s: %s", s.ID, s.Title)))
	fmt.Printf("Status:   %s\n", statusStyle(s.Status).Render(s.Status.String()))
	fmt.Printf("Points:   %d\n", s.StoryPoints)
	fmt.Printf("Priority: %s\n", s.Priority)
	if len(s.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(s.Tags, ", "))
	}
	if s.PublishedID != "" {
		fmt.Printf("Work item: %s (%s)\n", s.PublishedID, s.PublishedURL)
	}
	fmt.Printf("\n%s\n\nAcceptance criteria:\n", s.UserStory)
	for _, c := range s.AcceptanceCriteria {
		fmt.Printf("  - %s\n", c)
	}
	if s.Version > 0 {
		fmt.Println(hintStyle.Render(fmt.Sprintf("\nversion %d", s.Version)))
	}
}
