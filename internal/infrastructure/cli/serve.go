package cli

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/storyreview/internal/infrastructure/config"
	"github.com/felixgeelhaar/storyreview/internal/infrastructure/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the story review HTTP API",
	Long: `Serve the HTTP API over an in-memory session. Other storyreview
processes can use it with --data-source remote. Story events are streamed
at /api/events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		cfg := services.Config
		if cfg.DataSource == config.DataSourceRemote {
			return NewCLIError("serve needs the mock data source", "Drop --data-source remote; a server cannot proxy another server", nil)
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		handlers := httpapi.NewHandlers(services.Review, services.Ingestion, string(cfg.DataSource)).
			WithEventStream(services.Workspace.Stream)
		router := httpapi.NewRouter(handlers, cfg.Server.AllowedOrigins, services.Logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return httpapi.Serve(ctx, addr, router, services.Logger, func(a net.Addr) {
			fmt.Printf("Serving story review API on http://%s\n", a)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	RootCmd.AddCommand(serveCmd)
}
