package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// storeStat describes the store file.
type storeStat struct {
	Path     string     `json:"path"`
	Entries  int        `json:"entries"`
	Exists   bool       `json:"exists"`
	Size     int64      `json:"size"`
	Modified *time.Time `json:"modified,omitempty"`
}

// newStatCmd creates the stat command.
func newStatCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Show store file information",
		Long: `Show where the store file lives, how many entries it holds, its size
and when it was last written.

Examples:
  tinydb stat
  tinydb stat --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			st := storeStat{
				Path:    app.Store.Path(),
				Entries: app.Store.Len(),
			}
			info, err := os.Stat(st.Path)
			switch {
			case err == nil:
				st.Exists = true
				st.Size = info.Size()
				mod := info.ModTime()
				st.Modified = &mod
			case !os.IsNotExist(err):
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(st)
			}

			fmt.Fprintf(app.Out, "Path:     %s\n", st.Path)
			fmt.Fprintf(app.Out, "Entries:  %d\n", st.Entries)
			if !st.Exists {
				fmt.Fprintf(app.Out, "File:     %s\n", app.WarnColor("not created yet"))
				return nil
			}
			fmt.Fprintf(app.Out, "Size:     %s\n", humanize.Bytes(uint64(st.Size)))
			fmt.Fprintf(app.Out, "Modified: %s (%s)\n", st.Modified.Format(time.RFC3339), humanize.Time(*st.Modified))
			return nil
		},
	}

	return cmd
}
