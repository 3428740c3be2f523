package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all entries",
		Long: `List all key-value pairs in the store.

Entries are sorted alphabetically by key and printed as key=value lines,
the same format as the store file.

Examples:
  tinydb list
  tinydb list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(app.Store.All())
			}

			if app.Store.Len() == 0 {
				fmt.Fprintln(app.Out, "No entries")
				return nil
			}
			for _, k := range app.Store.Keys() {
				v, _ := app.Store.Get(k)
				fmt.Fprintf(app.Out, "%s=%s\n", k, v)
			}
			return nil
		},
	}

	return cmd
}
