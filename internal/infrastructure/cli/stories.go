package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/domain/review"
)

var (
	storiesOutput string
	storiesStatus string
)

var storiesCmd = &cobra.Command{
	Use:     "stories",
	Aliases: []string{"story"},
	Short:   "Browse stories",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stories, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(storiesOutput); err != nil {
			return err
		}
		sel, err := review.ParseSelector(storiesStatus)
		if err != nil {
			return MapError(err)
		}

		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		stories, err := services.Review.List(cmd.Context(), sel)
		if err != nil {
			return MapError(fmt.Errorf("list stories: %w", err))
		}
		if storiesOutput != formatText {
			return writeStructured(storiesOutput, stories)
		}
		title := "Stories"
		if sel != review.SelectAll {
			title = fmt.Sprintf("Stories [%s]", sel)
		}
		printStoryList(title, stories)
		return nil
	},
}

var storiesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(storiesOutput); err != nil {
			return err
		}
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		s, err := services.Review.Get(cmd.Context(), args[0])
		if err != nil {
			return MapError(fmt.Errorf("get story %s: %w", args[0], err))
		}
		if storiesOutput != formatText {
			return writeStructured(storiesOutput, s)
		}
		printStory(s)
		return nil
	},
}

var storiesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count stories per status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(storiesOutput); err != nil {
			return err
		}
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		counts, err := services.Review.Stats(cmd.Context())
		if err != nil {
			return MapError(fmt.Errorf("count stories: %w", err))
		}
		if storiesOutput != formatText {
			out := make(map[string]int, len(review.AllSelectors()))
			for _, sel := range review.AllSelectors() {
				out[string(sel)] = counts.Of(sel)
			}
			return writeStructured(storiesOutput, out)
		}
		for _, sel := range review.AllSelectors() {
			fmt.Printf("%-10s %d\n", sel, counts.Of(sel))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{storiesListCmd, storiesGetCmd, storiesStatsCmd} {
		c.Flags().StringVarP(&storiesOutput, "output", "o", formatText, "Output format (text, json, yaml)")
		storiesCmd.AddCommand(c)
	}
	storiesListCmd.Flags().StringVarP(&storiesStatus, "status", "s", "all", "Filter: all, new, approved, rejected, published")
	RootCmd.AddCommand(storiesCmd)
}
