package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/pkg/plugin/contract"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Work-item tracker utilities",
}

var trackerCheckCmd = &cobra.Command{
	Use:   "check <plugin-binary>",
	Short: "Run the tracker plugin contract suite against a binary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := contract.NewContractSuite().RunBinary(cmd.Context(), args[0])
		if err != nil {
			return NewCLIError("failed to start plugin", "Check that the path points to an executable tracker plugin", err)
		}

		for _, r := range result.Results {
			mark := "✓"
			if !r.Passed {
				mark = "✗"
			}
			fmt.Printf("%s %s", mark, r.Name)
			if r.Message != "" {
				fmt.Printf(": %s", r.Message)
			}
			fmt.Println()
		}
		fmt.Printf("\n%d passed, %d failed\n", result.Passed, result.Failed)
		if result.Failed > 0 {
			return NewCLIError(fmt.Sprintf("plugin %s failed %d contract checks", args[0], result.Failed), "", nil)
		}
		return nil
	},
}

func init() {
	trackerCmd.AddCommand(trackerCheckCmd)
	RootCmd.AddCommand(trackerCmd)
}
