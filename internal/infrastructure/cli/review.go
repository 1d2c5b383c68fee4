package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/application"
	"github.com/felixgeelhaar/storyreview/pkg/domain/story"
)

// createReviewCommand builds a batch command firing event on every id. Each
// id is reported on its own line; any failure makes the command fail.
func createReviewCommand(use, short, verb string, event story.Event) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := loadServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			results := services.Review.Transition(cmd.Context(), event, args)
			for _, r := range results {
				if !r.OK() {
					fmt.Printf("✗ %s: %v\n", r.ID, r.Err)
					continue
				}
				if r.Story.PublishedID != "" && event == story.EventPublish {
					fmt.Printf("✓ %s %s as %s (%s)\n", r.ID, verb, r.Story.PublishedID, r.Story.PublishedURL)
					continue
				}
				fmt.Printf("✓ %s %s\n", r.ID, verb)
			}

			failed := application.Failed(results)
			if len(failed) == 0 {
				return nil
			}
			if len(args) == 1 {
				return MapError(failed[0].Err)
			}
			return NewCLIError(fmt.Sprintf("%d of %d stories could not be %s", len(failed), len(results), verb), "", failed[0].Err)
		},
	}
}

func init() {
	RootCmd.AddCommand(
		createReviewCommand("approve", "Approve stories", "approved", story.EventApprove),
		createReviewCommand("reject", "Reject stories", "rejected", story.EventReject),
		createReviewCommand("publish", "Publish stories to the work-item tracker", "published", story.EventPublish),
	)
}
