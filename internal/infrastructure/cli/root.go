package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Global flags.
var (
	configPath     string
	dataSourceFlag string
	logLevelFlag   string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "storyreview",
	Version: Version,
	Short:   "Review user stories generated from meeting transcripts",
	Long: `storyreview turns meeting transcripts into user stories and lets you
review them before they reach your work-item tracker:
1. Submit a meeting and get candidate stories.
2. Edit, approve or reject each story.
3. Publish approved stories as work items.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
	}
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./storyreview.yaml when present)")
	RootCmd.PersistentFlags().StringVar(&dataSourceFlag, "data-source", "", "Override the data source (mock, remote)")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the log level (debug, info, warn, error)")
}
