package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/watch"
	"github.com/felixgeelhaar/daybrief/pkg/storage"
	"github.com/spf13/cobra"
)

var watchFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the daily plan whenever the item file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		render := func() {
			mu.Lock()
			defer mu.Unlock()

			items, err := storage.LoadItemsFile(watchFile)
			if err != nil {
				_, _ = fmt.Fprintf(out, "Reload failed: %v\n", err)
				return
			}
			report, err := services.Insights.BuildDailyPlan(items)
			if err != nil {
				_, _ = fmt.Fprintf(out, "Plan failed: %v\n", MapError(err))
				return
			}
			renderDailyPlan(out, report)
		}

		w, err := watch.NewFileWatcher(watchFile, 0, func(e watch.ChangeEvent) {
			services.Logger.Debug("item file changed", "path", e.Path, "change", e.ChangeType)
			_, _ = fmt.Fprintf(out, "\n%s changed (%s) at %s\n", watchFile, e.ChangeType, services.Clock.Now().Format("15:04:05"))
			render()
		})
		if err != nil {
			return MapError(err)
		}

		render()
		_, _ = fmt.Fprintf(out, "Watching %s for changes... (Ctrl+C to stop)\n", watchFile)

		// Any exit after cancellation or a deadline is a clean stop.
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "YAML or JSON file of work items")
	_ = watchCmd.MarkFlagRequired("file")
	RootCmd.AddCommand(watchCmd)
}
