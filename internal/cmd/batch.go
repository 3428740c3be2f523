package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"tinydb/internal/flatstore"

	"github.com/spf13/cobra"
)

// newBatchCmd creates the batch command.
func newBatchCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Apply many key=value lines in one write",
		Long: `Read key=value lines from a file (or stdin) and apply them together.

All lines are applied in a single transaction, so the store file is
rewritten once no matter how many lines are read. Blank lines are
skipped. If any line is malformed nothing is written.

Examples:
  tinydb batch updates.txt
  printf 'a=1\nb=2\n' | tinydb batch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			in := app.In
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			count, err := applyLines(app.Store, in)
			if err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]int{"applied": count})
			}

			if count == 0 {
				fmt.Fprintln(app.Out, app.WarnColor("No entries to apply"))
				return nil
			}
			fmt.Fprintf(app.Out, "%s Applied %d entries\n", app.SuccessColor("✓"), count)
			return nil
		},
	}

	return cmd
}

// applyLines sets every key=value line read from r in one transaction and
// returns how many lines were applied.
func applyLines(store *flatstore.Store, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	count := 0
	err := store.Transaction(func(w *flatstore.Writer) error {
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSuffix(scanner.Text(), "\r")
			if line == "" {
				continue
			}
			if err := w.SetLine(line); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			count++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
