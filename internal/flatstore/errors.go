package flatstore

import "errors"

var (
	// ErrInvalidArgument is returned when a key or value cannot be stored,
	// e.g. an empty key or a value containing a newline.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedLine is returned when a line has no '=' separator, either
	// while reloading the backing file or when passed to SetLine.
	ErrMalformedLine = errors.New("malformed line")

	// ErrInvalidValue is returned by typed getters when the stored text
	// does not parse as the requested type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrWriterClosed is returned when a Writer is used after its
	// transaction has returned.
	ErrWriterClosed = errors.New("writer used outside its transaction")
)
