package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tinydb/internal/flatstore"
	"tinydb/internal/watch"

	"github.com/spf13/cobra"
)

// newWatchCmd creates the watch command.
func newWatchCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the entries whenever the store file changes",
		Long: `Watch the store file and reload it whenever another process changes it,
printing all entries after each reload. Runs until interrupted.

Examples:
  tinydb watch
  tinydb watch --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
			defer stop()

			w, err := watch.New(app.Store, app.Logger)
			if err != nil {
				return err
			}
			app.Logger.InfoContext(ctx, "Watching store", "path", app.Store.Path())

			return w.Run(ctx, func(s *flatstore.Store) {
				if app.JSON {
					_ = json.NewEncoder(app.Out).Encode(s.All())
					return
				}
				fmt.Fprintf(app.Out, "--- %d entries\n", s.Len())
				for _, k := range s.Keys() {
					v, _ := s.Get(k)
					fmt.Fprintf(app.Out, "%s=%s\n", k, v)
				}
			})
		},
	}

	return cmd
}
