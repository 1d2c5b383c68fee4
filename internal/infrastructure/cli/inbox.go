package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/watch"
)

var inboxOnce bool

var inboxCmd = &cobra.Command{
	Use:   "inbox [dir]",
	Short: "Generate stories from transcript files dropped into a directory",
	Long: `Watch a directory for transcript JSON files. Each file is turned into
stories and moved to the processed/ subdirectory; files that fail stay in
place. With --once the files already present are processed and the command
exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		cfg := services.Config.Inbox
		dir := cfg.Dir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			return NewCLIError("no inbox directory", "Pass a directory or set inbox.dir in storyreview.yaml", nil)
		}

		inbox := watch.NewInbox(dir, services.Ingestion,
			watch.WithPattern(cfg.Pattern),
			watch.WithDebounce(cfg.Debounce()),
			watch.WithLogger(services.Logger),
			watch.WithResultHandler(printInboxResult),
		)

		if inboxOnce {
			results, err := inbox.Drain(cmd.Context())
			if err != nil {
				return NewCLIError("failed to read inbox", "Check that the directory exists", err)
			}
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			fmt.Printf("%d transcripts processed, %d failed\n", len(results)-failed, failed)
			if failed > 0 {
				return NewCLIError(fmt.Sprintf("%d transcripts failed", failed), "Fix the files and run again", nil)
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Printf("Watching %s for %s (Ctrl+C to stop)\n", dir, cfg.Pattern)
		return inbox.Run(ctx)
	},
}

func printInboxResult(r watch.Result) {
	if r.Err != nil {
		fmt.Printf("✗ %s: %v\n", r.Path, r.Err)
		return
	}
	fmt.Printf("✓ %s: %d stories from meeting %s\n", r.Path, len(r.Stories), r.MeetingID)
}

func init() {
	inboxCmd.Flags().BoolVar(&inboxOnce, "once", false, "Process the current files and exit")
	RootCmd.AddCommand(inboxCmd)
}
