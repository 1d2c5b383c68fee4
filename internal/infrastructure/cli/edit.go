package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/domain/editor"
)

var (
	editTitle     string
	editUserStory string
	editCriteria  []string
	editPoints    int
	editPriority  string
	editTags      string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the fields of a story",
	Long: `Edit a story. Only the flags given are changed; the rest keep their
current value. --criteria replaces all acceptance criteria and may be
repeated. --tags takes a comma separated list; pass "" to clear the tags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		current, err := services.Review.Get(cmd.Context(), args[0])
		if err != nil {
			return MapError(err)
		}

		form := editor.FormFrom(*current)
		flags := cmd.Flags()
		if flags.Changed("title") {
			form.Title = editTitle
		}
		if flags.Changed("user-story") {
			form.UserStory = editUserStory
		}
		if flags.Changed("criteria") {
			form.Criteria = strings.Join(editCriteria, "\n")
		}
		if flags.Changed("points") {
			form.StoryPoints = strconv.Itoa(editPoints)
		}
		if flags.Changed("priority") {
			form.Priority = editPriority
		}
		if flags.Changed("tags") {
			form.Tags = editTags
		}

		updated, err := services.Review.Edit(cmd.Context(), args[0], form)
		if err != nil {
			return MapError(err)
		}
		fmt.Printf("✓ Story %s updated (version %d)\n\n", updated.ID, updated.Version)
		printStory(updated)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editUserStory, "user-story", "", "New user story sentence")
	editCmd.Flags().StringArrayVar(&editCriteria, "criteria", nil, "Acceptance criterion (repeatable)")
	editCmd.Flags().IntVar(&editPoints, "points", 0, "Story points: 1, 2, 3, 5 or 8")
	editCmd.Flags().StringVar(&editPriority, "priority", "", "Priority: High, Medium or Low")
	editCmd.Flags().StringVar(&editTags, "tags", "", "Comma separated tags")
	RootCmd.AddCommand(editCmd)
}
