// tinydb is the CLI for a flat-file key-value store.
package main

import (
	"fmt"
	"os"

	"tinydb/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
