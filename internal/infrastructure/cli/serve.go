package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/httpapi"
	"github.com/spf13/cobra"
)

var serveAddr string

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		addr := services.Config.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		server := httpapi.NewServer(addr, services.Items, services.Insights, services.Store, services.Clock, services.Logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if services.Notifier != nil {
			services.Notifier.Wait()
		}
		select {
		case err := <-errCh:
			return err
		case <-shutdownCtx.Done():
			return nil
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "daybrief %s (commit %s, built %s)\n", Version, Commit, Date)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	RootCmd.AddCommand(serveCmd, versionCmd)
}
