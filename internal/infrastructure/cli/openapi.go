package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/storyreview/internal/infrastructure/mcp"
)

var openapiOutput string

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document of the MCP tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		inframcp.Version, inframcp.BuildCommit, inframcp.BuildDate = Version, Commit, Date
		server, err := inframcp.NewServer(services)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		doc, err := server.OpenAPI()
		if err != nil {
			return fmt.Errorf("failed to generate OpenAPI document: %w", err)
		}

		if openapiOutput == "" {
			fmt.Println(string(doc))
			return nil
		}
		if err := os.WriteFile(openapiOutput, doc, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", openapiOutput, err)
		}
		fmt.Printf("OpenAPI document written to %s\n", openapiOutput)
		return nil
	},
}

func init() {
	openapiCmd.Flags().StringVarP(&openapiOutput, "file", "f", "", "Write the document to a file instead of stdout")
	RootCmd.AddCommand(openapiCmd)
}
