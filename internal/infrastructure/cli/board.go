package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive review board",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("STORYREVIEW_SKIP_BOARD_RUN") == "true" {
			return nil
		}
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		p := tea.NewProgram(newBoardModel(cmd.Context(), services.Review))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("board run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(boardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// boardService is the part of the review service the board drives.
type boardService interface {
	List(ctx context.Context, sel review.Selector) ([]story.Story, error)
	Stats(ctx context.Context) (review.Counts, error)
	Approve(ctx context.Context, id string) (*story.Story, error)
	Reject(ctx context.Context, id string) (*story.Story, error)
	Publish(ctx context.Context, id string) (*story.Story, error)
}

type boardModel struct {
	ctx     context.Context
	svc     boardService
	tabs    []review.Selector
	tab     int
	table   table.Model
	stories []story.Story
	counts  review.Counts
	notice  string
	err     error
}

func newBoardModel(ctx context.Context, svc boardService) boardModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Status", Width: 10},
		{Title: "Pts", Width: 4},
		{Title: "Priority", Width: 8},
		{Title: "Title", Width: 40},
		{Title: "Work item", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	m := boardModel{
		ctx:   ctx,
		svc:   svc,
		tabs:  review.AllSelectors(),
		table: t,
	}
	m.reload()
	return m
}

// reload fetches the stories of the current tab and the counts for the tab bar.
func (m *boardModel) reload() {
	sel := m.tabs[m.tab]
	stories, err := m.svc.List(m.ctx, sel)
	if err != nil {
		m.err = err
		return
	}
	counts, err := m.svc.Stats(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.stories = stories
	m.counts = counts

	rows := make([]table.Row, 0, len(stories))
	for _, st := range stories {
		rows = append(rows, table.Row{
			st.ID,
			st.Status.String(),
			fmt.Sprint(st.StoryPoints),
			string(st.Priority),
			st.Title,
			st.PublishedID,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m boardModel) selected() (story.Story, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.stories) {
		return story.Story{}, false
	}
	return m.stories[i], true
}

func (m *boardModel) act(verb string, fn func(context.Context, string) (*story.Story, error)) {
	st, ok := m.selected()
	if !ok {
		return
	}
	updated, err := fn(m.ctx, st.ID)
	if err != nil {
		m.notice = errStyle.Render(fmt.Sprintf("%s failed: %v", st.ID, err))
	} else if updated.PublishedID != "" && verb == "published" {
		m.notice = statusDone.Render(fmt.Sprintf("%s published as %s", st.ID, updated.PublishedID))
	} else {
		m.notice = statusStyle(updated.Status).Render(fmt.Sprintf("%s %s", st.ID, verb))
	}
	m.reload()
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right":
			m.tab = (m.tab + 1) % len(m.tabs)
			m.notice = ""
			m.reload()
			return m, nil
		case "shift+tab", "left":
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.notice = ""
			m.reload()
			return m, nil
		case "a":
			m.act("approved", m.svc.Approve)
			return m, nil
		case "r":
			m.act("rejected", m.svc.Reject)
			return m, nil
		case "p":
			m.act("published", m.svc.Publish)
			return m, nil
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m boardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading stories: %v\nPress q to quit.", m.err)
	}

	tabs := make([]string, 0, len(m.tabs))
	for i, sel := range m.tabs {
		label := fmt.Sprintf("%s (%d)", sel, m.counts.Of(sel))
		if i == m.tab {
			label = activeTabStyle.Render(label)
		}
		tabs = append(tabs, label)
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("Story Review"),
			strings.Join(tabs, "  "),
			m.table.View(),
			m.notice,
			"\n[a] Approve  [r] Reject  [p] Publish  [tab] Next filter  [q] Quit",
		),
	) + "\n"
}
