// Package flatstore implements a small key-value store persisted as a single
// flat text file of key=value lines.
//
// The whole mapping is held in memory. It is loaded from disk by New and
// Reload, and written back as a whole, at most once per Transaction, when
// the transaction changed something. Values are stored as text; typed
// accessors (Put, GetTyped, SetTyped) encode and parse the primitive kinds
// listed in Primitive.
//
// When several values change together, group them in one Transaction rather
// than calling Set repeatedly: each top-level Set rewrites the file.
//
// A Store is not safe for concurrent use and holds no lock on its file.
package flatstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Store is an in-memory map backed by one flat file on disk.
type Store struct {
	path    string
	data    map[string]string
	flushes int // successful file rewrites
}

// New creates a Store backed by path and loads it. A missing file is
// treated as an empty store; the file is created by the first transaction
// that writes.
func New(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]string),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Reload discards the in-memory mapping and reads the backing file again.
// Writes not yet flushed are lost. If the file contains a line without '='
// the reload fails with ErrMalformedLine and the store is left empty.
func (s *Store) Reload() error {
	s.data = make(map[string]string)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading store file: %w", err)
	}

	fresh, err := parse(s.path, string(raw))
	if err != nil {
		return err
	}
	s.data = fresh
	slog.Debug("reloaded store", "path", s.path, "entries", len(fresh))
	return nil
}

// parse decodes the file content. Later lines win over earlier ones.
func parse(path, text string) (map[string]string, error) {
	out := make(map[string]string)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%s:%d: %q: %w", path, i+1, line, ErrMalformedLine)
		}
		out[key] = value
	}
	return out, nil
}

// Get returns the value for key and whether it was found.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.data)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns a copy of all key-value pairs.
func (s *Store) All() map[string]string {
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Transaction calls fn with a Writer. Writes are visible to Get as soon as
// they are made. After fn returns the file is rewritten once if fn wrote
// anything; if fn wrote nothing, the file is not touched.
//
// If fn returns an error or panics, the file is not rewritten; the Writer
// is closed either way. Writes already applied stay in memory until the
// next successful transaction flushes them or a Reload discards them.
func (s *Store) Transaction(fn func(w *Writer) error) error {
	w := &Writer{store: s}
	defer func() { w.closed = true }()
	if err := fn(w); err != nil {
		return err
	}
	w.closed = true
	if !w.dirty {
		return nil
	}
	return s.flush()
}

// Set stores key=value in its own transaction.
func (s *Store) Set(key, value string) error {
	return s.Transaction(func(w *Writer) error {
		return w.Set(key, value)
	})
}

// SetLine stores a "key=value" line in its own transaction.
func (s *Store) SetLine(line string) error {
	return s.Transaction(func(w *Writer) error {
		return w.SetLine(line)
	})
}

// flush writes the whole mapping to the backing file.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	var b strings.Builder
	for _, k := range s.Keys() {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s.data[k])
		b.WriteByte('\n')
	}

	if err := atomicWrite(s.path, []byte(b.String())); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	s.flushes++
	slog.Debug("flushed store", "path", s.path, "entries", len(s.data))
	return nil
}

// atomicWrite writes data to a file atomically via a temporary file and rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp." + uuid.NewString()

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}
