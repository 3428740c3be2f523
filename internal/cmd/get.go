package cmd

import (
	"encoding/json"
	"fmt"
	"math"

	"tinydb/internal/flatstore"

	"github.com/spf13/cobra"
)

// newGetCmd creates the get command.
func newGetCmd(provider *AppProvider) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a value",
		Long: `Get the value stored under a key.

Prints the bare value if the key is set, or "key (not set)" if missing.
With --type the stored text is parsed as that type, and the command fails
if it does not parse.

Examples:
  tinydb get window.width
  tinydb get window.width --type int32
  tinydb get debug --type bool --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			vt, err := lookupType(typeName)
			if err != nil {
				return err
			}

			key := args[0]
			value, ok, err := vt.get(app.Store, key)
			if err != nil {
				return err
			}

			if app.JSON {
				result := map[string]interface{}{
					"key":   key,
					"value": jsonValue(value),
					"found": ok,
				}
				if !ok {
					result["value"] = nil
				}
				return json.NewEncoder(app.Out).Encode(result)
			}

			if ok {
				fmt.Fprintln(app.Out, value)
			} else {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Parse the value as bool, int8, int16, int32, int64, float32, float64 or string")

	return cmd
}

// jsonValue returns v in a form encoding/json accepts. NaN and infinities
// have no JSON number form and are emitted as their stored text.
func jsonValue(v any) any {
	switch f := v.(type) {
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return flatstore.Encode(f)
		}
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return flatstore.Encode(f)
		}
	}
	return v
}
