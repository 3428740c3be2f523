package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"tinydb/internal/flatstore"
)

// setupTestApp creates an App over a fresh store in a temp directory.
func setupTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	store, err := flatstore.New(filepath.Join(t.TempDir(), "test.tinydb"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	var out bytes.Buffer
	app := &App{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		In:     strings.NewReader(""),
		Out:    &out,
		Err:    io.Discard,
	}
	return app, &out
}

// seedStore writes the given pairs to the app's store in one transaction.
func seedStore(t *testing.T, app *App, pairs map[string]string) {
	t.Helper()
	err := app.Store.Transaction(func(w *flatstore.Writer) error {
		for k, v := range pairs {
			if err := w.Set(k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}

// reopen loads the app's store file into a new Store.
func reopen(t *testing.T, app *App) *flatstore.Store {
	t.Helper()
	s, err := flatstore.New(app.Store.Path())
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	return s
}
