package flatstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.tinydb"))
	require.NoError(t, err)

	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "missing.tinydb")
	s, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, path, s.Path())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "New must not create the backing file")
}

func TestNew_LoadsExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "existing.tinydb")
	writeFile(t, path, "name=alice\nurl=http://x/?a=b\n\nempty=\n")

	s, err := New(path)
	require.NoError(t, err)

	v, ok := s.Get("name")
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	v, ok = s.Get("url")
	require.True(t, ok)
	assert.Equal(t, "http://x/?a=b", v, "value is split on the first '=' only")

	v, ok = s.Get("empty")
	require.True(t, ok)
	assert.Empty(t, v)

	assert.Equal(t, 3, s.Len())
}

func TestReload_CRLF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crlf.tinydb")
	writeFile(t, path, "a=1\r\nb=2\r\n")

	s, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, s.All())
}

func TestReload_LastLineWins(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dup.tinydb")
	writeFile(t, path, "a=1\na=2\n")

	s, err := New(path)
	require.NoError(t, err)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestReload_MalformedLineIsFatal(t *testing.T) {
	t.Parallel()

	for _, content := range []string{
		"a=1\nbroken\nc=3\n",
		"=novalue\n",
	} {
		path := filepath.Join(t.TempDir(), "bad.tinydb")
		writeFile(t, path, content)

		_, err := New(path)
		require.Error(t, err, "content %q", content)
		assert.ErrorIs(t, err, ErrMalformedLine)
	}
}

func TestReload_FailureLeavesStoreEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Set("a", "1"))

	writeFile(t, s.Path(), "a=1\nbroken\n")

	err := s.Reload()
	require.ErrorIs(t, err, ErrMalformedLine)
	assert.Equal(t, 0, s.Len())
}

func TestReload_ExternalEditVisible(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Set("kept", "yes"))

	// Unflushed write: the callback fails, so nothing reaches the file.
	errAbort := errors.New("abort")
	err := s.Transaction(func(w *Writer) error {
		require.NoError(t, w.Set("pending", "1"))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	v, ok := s.Get("pending")
	require.True(t, ok, "writes apply in memory even when the transaction is not flushed")
	assert.Equal(t, "1", v)

	writeFile(t, s.Path(), "external=edit\n")
	require.NoError(t, s.Reload())

	v, ok = s.Get("external")
	require.True(t, ok)
	assert.Equal(t, "edit", v)

	_, ok = s.Get("pending")
	assert.False(t, ok, "reload discards unflushed state")
	_, ok = s.Get("kept")
	assert.False(t, ok, "reload replaces the mapping with the file content")
}

func TestReload_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Set("a", "1"))

	require.NoError(t, s.Reload())
	first := s.All()
	require.NoError(t, s.Reload())

	assert.Equal(t, first, s.All())
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	v, ok := s.Get("nonexistent")
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSet_Persists(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Set("actor", "alice"))
	require.NoError(t, s.Set("actor", "bob"))

	s2, err := New(s.Path())
	require.NoError(t, err)

	v, ok := s2.Get("actor")
	require.True(t, ok)
	assert.Equal(t, "bob", v)
}

func TestSet_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c", "deep.tinydb")
	s, err := New(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("k", "v"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "k=v\n", string(raw))
}

func TestSet_InvalidArguments(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	cases := []struct {
		key, value string
	}{
		{"", "v"},
		{"a=b", "v"},
		{"a\nb", "v"},
		{"k", "line\nbreak"},
		{"k", "carriage\rreturn"},
	}
	for _, tc := range cases {
		err := s.Set(tc.key, tc.value)
		assert.ErrorIs(t, err, ErrInvalidArgument, "Set(%q, %q)", tc.key, tc.value)
	}

	assert.Equal(t, 0, s.Len())
	_, err := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "rejected writes must not touch the file")
}

func TestSetLine(t *testing.T) {
	t.Parallel()

	a := newTestStore(t)
	b := newTestStore(t)

	require.NoError(t, a.SetLine("k=v=w"))
	require.NoError(t, b.Set("k", "v=w"))

	assert.Equal(t, b.All(), a.All())

	err := a.SetLine("no-separator")
	require.ErrorIs(t, err, ErrMalformedLine)
}

func TestFileFormat(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Transaction(func(w *Writer) error {
		for _, line := range []string{"b=2", "a=1", "c=x=y"} {
			if err := w.SetLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	assert.ElementsMatch(t, []string{"a=1", "b=2", "c=x=y"}, lines)
	assert.True(t, strings.HasSuffix(string(raw), "\n"))
}

func TestTransaction_SingleFlush(t *testing.T) {
	t.Parallel()

	const n = 10

	batched := newTestStore(t)
	err := batched.Transaction(func(w *Writer) error {
		for i := 0; i < n; i++ {
			if err := w.Set(fmt.Sprintf("key-%d", i), fmt.Sprint(i)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	singles := newTestStore(t)
	for i := 0; i < n; i++ {
		require.NoError(t, singles.Set(fmt.Sprintf("key-%d", i), fmt.Sprint(i)))
	}

	assert.Equal(t, singles.All(), batched.All())
	assert.Equal(t, 1, batched.flushes)
	assert.Equal(t, n, singles.flushes)

	fromBatched, err := New(batched.Path())
	require.NoError(t, err)
	fromSingles, err := New(singles.Path())
	require.NoError(t, err)
	assert.Equal(t, fromSingles.All(), fromBatched.All())
}

func TestTransaction_ReadsOwnWrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Transaction(func(w *Writer) error {
		require.NoError(t, w.Set("counter", "1"))

		v, ok := w.Get("counter")
		require.True(t, ok)
		assert.Equal(t, "1", v)

		v, ok = s.Get("counter")
		require.True(t, ok)
		assert.Equal(t, "1", v)

		n, _, err := GetTyped[int32](s, "counter")
		if err != nil {
			return err
		}
		return Put(w, "counter", n+1)
	})
	require.NoError(t, err)

	n, ok, err := GetTyped[int32](s, "counter")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(2), n)
	assert.Equal(t, 1, s.flushes)
}

func TestTransaction_NoWritesNoIO(t *testing.T) {
	t.Parallel()

	t.Run("absent file stays absent", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		require.NoError(t, s.Transaction(func(w *Writer) error { return nil }))

		_, err := os.Stat(s.Path())
		assert.True(t, os.IsNotExist(err))
		assert.Equal(t, 0, s.flushes)
	})

	t.Run("existing file untouched", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		require.NoError(t, s.Set("a", "1"))

		past := time.Now().Add(-time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(s.Path(), past, past))

		require.NoError(t, s.Transaction(func(w *Writer) error {
			_, _ = w.Get("a")
			return nil
		}))

		info, err := os.Stat(s.Path())
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(past), "mod time changed to %v", info.ModTime())
		assert.Equal(t, 1, s.flushes)
	})

	t.Run("rejected writes only", func(t *testing.T) {
		t.Parallel()

		s := newTestStore(t)
		err := s.Transaction(func(w *Writer) error {
			assert.Error(t, w.Set("", "v"))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 0, s.flushes)
	})
}

func TestTransaction_WriterClosedAfterReturn(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	var leaked *Writer
	require.NoError(t, s.Transaction(func(w *Writer) error {
		leaked = w
		return w.Set("a", "1")
	}))

	err := leaked.Set("b", "2")
	require.ErrorIs(t, err, ErrWriterClosed)

	_, ok := s.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 1, s.flushes)
}

func TestTransaction_WriterClosedAfterPanic(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	var leaked *Writer
	func() {
		defer func() {
			require.NotNil(t, recover())
		}()
		_ = s.Transaction(func(w *Writer) error {
			leaked = w
			panic("callback failed")
		})
	}()

	err := leaked.Set("late", "1")
	require.ErrorIs(t, err, ErrWriterClosed)

	_, ok := s.Get("late")
	assert.False(t, ok)
	assert.Equal(t, 0, s.flushes)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestTransaction_WriteErrorSurfaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// A regular file where the parent directory should be.
	blocker := filepath.Join(dir, "blocker")
	writeFile(t, blocker, "")

	s := newTestStore(t)
	s.path = filepath.Join(blocker, "store.tinydb")

	err := s.Set("a", "1")
	require.Error(t, err)

	v, ok := s.Get("a")
	require.True(t, ok, "in-memory mapping may be ahead of disk after a failed write")
	assert.Equal(t, "1", v)
}

func TestKeysSortedAndAllIsCopy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.NoError(t, s.Transaction(func(w *Writer) error {
		require.NoError(t, w.Set("b", "2"))
		require.NoError(t, w.Set("a", "1"))
		return w.Set("c", "3")
	}))

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())

	all := s.All()
	all["a"] = "MUTATED"

	v, _ := s.Get("a")
	assert.Equal(t, "1", v)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, SetTyped(s, "n", int64(i)))
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(s.Path()), entries[0].Name())
}
