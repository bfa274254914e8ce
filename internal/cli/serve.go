package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Override api.host")
	serveCmd.Flags().Int("port", 0, "Override api.port")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API",
	Long: `Start the HTTP API on api.host:api.port. Registries are restored from the
storage backend at start and written through on every change. Stops
gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := openDaemon(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	if host, _ := cmd.Flags().GetString("host"); host != "" {
		d.Config.API.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		d.Config.API.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "✅ pointmoney API on http://%s (backend: %s)\n",
		d.Config.API.Addr(), d.Config.Storage.Backend)
	return d.Serve(ctx)
}
