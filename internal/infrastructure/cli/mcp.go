package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	inframcp "github.com/felixgeelhaar/storyreview/internal/infrastructure/mcp"
)

var (
	mcpTransport string
	mcpAddr      string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can review
stories. Transports: stdio (default), http and ws.`,
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

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		switch mcpTransport {
		case "stdio":
			return server.ServeStdio(ctx)
		case "http":
			fmt.Fprintf(os.Stderr, "Starting MCP HTTP server on %s\n", mcpAddr)
			return server.ServeHTTP(ctx, mcpAddr)
		case "ws", "websocket":
			fmt.Fprintf(os.Stderr, "Starting MCP WebSocket server on %s\n", mcpAddr)
			return server.ServeWebSocket(ctx, mcpAddr)
		default:
			return NewCLIError(fmt.Sprintf("unsupported transport %q", mcpTransport), "Use stdio, http or ws", nil)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport: stdio, http or ws")
	mcpCmd.Flags().StringVar(&mcpAddr, "addr", ":8081", "Listen address for the http and ws transports")
	RootCmd.AddCommand(mcpCmd)
}
