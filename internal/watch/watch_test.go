package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tinydb/internal/flatstore"

	"github.com/stretchr/testify/require"
)

// startWatcher runs a watcher over a fresh store and returns the store path
// and a channel of entry snapshots taken after each reload.
func startWatcher(t *testing.T) (string, <-chan map[string]string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "watched.tinydb")
	store, err := flatstore.New(path)
	require.NoError(t, err)

	w, err := New(store, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	changes := make(chan map[string]string, 64)
	go func() {
		done <- w.Run(ctx, func(s *flatstore.Store) {
			changes <- s.All()
		})
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return path, changes
}

// waitFor returns once a snapshot has key set to want.
func waitFor(t *testing.T, changes <-chan map[string]string, key, want string) {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-changes:
			if snap[key] == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s=%s", key, want)
		}
	}
}

func TestWatcher_ReloadsOnExternalWrite(t *testing.T) {
	t.Parallel()

	path, changes := startWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("color=blue\n"), 0644))
	waitFor(t, changes, "color", "blue")
}

func TestWatcher_ReloadsOnAtomicRewrite(t *testing.T) {
	t.Parallel()

	path, changes := startWatcher(t)

	other, err := flatstore.New(path)
	require.NoError(t, err)
	require.NoError(t, other.Set("mode", "fast"))

	waitFor(t, changes, "mode", "fast")
}

func TestWatcher_SurvivesMalformedFile(t *testing.T) {
	t.Parallel()

	path, changes := startWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("not a valid line\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("ok=yes\n"), 0644))

	waitFor(t, changes, "ok", "yes")
}

func TestWatcher_IgnoresRenameAway(t *testing.T) {
	t.Parallel()

	path, changes := startWatcher(t)

	writer, err := flatstore.New(path)
	require.NoError(t, err)
	require.NoError(t, writer.Set("a", "1"))
	waitFor(t, changes, "a", "1")

	require.NoError(t, os.Rename(path, path+".bak"))
	require.NoError(t, writer.Set("b", "2"))

	// The next reload must come from the rewrite, not from the file
	// moving away.
	select {
	case snap := <-changes:
		require.Equal(t, map[string]string{"a": "1", "b": "2"}, snap)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload after rewrite")
	}
}
