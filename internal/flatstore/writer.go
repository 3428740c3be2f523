package flatstore

import (
	"fmt"
	"strings"
)

// Writer is the write handle passed to a Transaction callback. It is only
// valid until the callback returns.
type Writer struct {
	store  *Store
	dirty  bool
	closed bool
}

// Set stores value under key.
func (w *Writer) Set(key, value string) error {
	if w.closed {
		return ErrWriterClosed
	}
	if err := validateEntry(key, value); err != nil {
		return err
	}
	w.store.data[key] = value
	w.dirty = true
	return nil
}

// SetLine splits line on the first '=' and stores the two halves.
func (w *Writer) SetLine(line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("%q: %w", line, ErrMalformedLine)
	}
	return w.Set(key, value)
}

// Get returns the value for key, including writes made earlier in the
// same transaction.
func (w *Writer) Get(key string) (string, bool) {
	return w.store.Get(key)
}

// Put stores the canonical text form of v under key.
func Put[T Primitive](w *Writer, key string, v T) error {
	return w.Set(key, Encode(v))
}

// SetTyped stores v under key in its own transaction.
func SetTyped[T Primitive](s *Store, key string, v T) error {
	return s.Transaction(func(w *Writer) error {
		return Put(w, key, v)
	})
}

// GetTyped returns the value for key parsed as T. A missing key returns
// the zero value and false. A stored value that does not parse as T
// returns an error wrapping ErrInvalidValue.
func GetTyped[T Primitive](s *Store, key string) (T, bool, error) {
	var zero T
	raw, ok := s.Get(key)
	if !ok {
		return zero, false, nil
	}
	v, err := Decode[T](raw)
	if err != nil {
		return zero, true, fmt.Errorf("key %q: %w", key, err)
	}
	return v, true, nil
}

// validateEntry checks that key and value can be written as one
// key=value line and read back unchanged.
func validateEntry(key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty: %w", ErrInvalidArgument)
	}
	if strings.ContainsAny(key, "=\n\r") {
		return fmt.Errorf("key %q contains '=' or a line break: %w", key, ErrInvalidArgument)
	}
	if strings.ContainsAny(value, "\n\r") {
		return fmt.Errorf("value for key %q contains a line break: %w", key, ErrInvalidArgument)
	}
	return nil
}
