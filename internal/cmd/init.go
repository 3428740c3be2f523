package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"tinydb/internal/config"

	"github.com/spf13/cobra"
)

// newInitCmd creates the init command.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write tinydb.yaml with the current settings",
		Long: `Write tinydb.yaml into the base directory with the settings currently in
effect (flags, environment and any existing file), so later runs use
them without flags.

Examples:
  tinydb --dir ./data --name prefs init
  tinydb --log-level info init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			path := app.Paths.ConfigFile
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := app.Config
			if cfg.Dir == app.Paths.BaseDir {
				cfg.Dir = ""
			}
			if err := os.MkdirAll(app.Paths.BaseDir, 0755); err != nil {
				return fmt.Errorf("creating base directory: %w", err)
			}
			if err := config.Write(path, cfg); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]string{"config": path})
			}
			fmt.Fprintf(app.Out, "%s Wrote %s\n", app.SuccessColor("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing tinydb.yaml")

	return cmd
}
