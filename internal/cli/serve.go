package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/newsguard/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Serve exposes verification over HTTP. Send X-User-ID to record results
in a user's history when the store is enabled.

Example:
  newsguard serve --addr :8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, cfg, cleanup, err := buildService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		return server.New(svc, cfg.Server, logger.Named("http")).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	rootCmd.AddCommand(serveCmd)
}
