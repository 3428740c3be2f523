package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"tinydb/internal/flatstore"

	"github.com/spf13/cobra"
)

// newSetCmd creates the set command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "set <key> <value> | set <key=value>",
		Short: "Set a value",
		Long: `Set a key to a value and write the store file.

The single-argument form takes a key=value line and splits it on the
first '='. With --type the value is parsed as that type and stored in
its canonical form (e.g. "1.50" as float64 is stored as "1.5").

Examples:
  tinydb set window.width 800
  tinydb set window.width=800
  tinydb set ratio 0.75 --type float64`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			vt, err := lookupType(typeName)
			if err != nil {
				return err
			}

			var key, value string
			if len(args) == 2 {
				key, value = args[0], args[1]
			} else {
				var ok bool
				key, value, ok = strings.Cut(args[0], "=")
				if !ok {
					return fmt.Errorf("%q: %w (expected key=value)", args[0], flatstore.ErrMalformedLine)
				}
			}

			err = app.Store.Transaction(func(w *flatstore.Writer) error {
				return vt.set(w, key, value)
			})
			if err != nil {
				return fmt.Errorf("setting %s: %w", key, err)
			}

			stored, _ := app.Store.Get(key)

			if app.JSON {
				result := map[string]string{
					"key":   key,
					"value": stored,
				}
				return json.NewEncoder(app.Out).Encode(result)
			}

			fmt.Fprintf(app.Out, "%s Set %s = %s\n", app.SuccessColor("✓"), key, stored)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Parse the value as bool, int8, int16, int32, int64, float32, float64 or string")

	return cmd
}
