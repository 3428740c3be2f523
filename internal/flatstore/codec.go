package flatstore

import (
	"fmt"
	"strconv"
)

// Primitive is the closed set of value types with a canonical text form.
type Primitive interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64 | string
}

// Encode returns the canonical text form of v. Decode[T] accepts every
// string Encode produces and returns a value equal to v.
func Encode[T Primitive](v T) string {
	switch x := any(v).(type) {
	case bool:
		return strconv.FormatBool(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	panic(fmt.Sprintf("flatstore: unsupported type %T", v))
}

// Decode parses s as a T.
func Decode[T Primitive](s string) (T, error) {
	var zero T
	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case bool:
		out, err = strconv.ParseBool(s)
	case int8:
		var n int64
		n, err = strconv.ParseInt(s, 10, 8)
		out = int8(n)
	case int16:
		var n int64
		n, err = strconv.ParseInt(s, 10, 16)
		out = int16(n)
	case int32:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		out = int32(n)
	case int64:
		out, err = strconv.ParseInt(s, 10, 64)
	case float32:
		var f float64
		f, err = strconv.ParseFloat(s, 32)
		out = float32(f)
	case float64:
		out, err = strconv.ParseFloat(s, 64)
	case string:
		out = s
	}
	if err != nil {
		return zero, fmt.Errorf("parsing %q as %s: %w: %w", s, TypeName[T](), ErrInvalidValue, err)
	}
	return out.(T), nil
}

// TypeName returns the name used for T in error messages and on the
// command line.
func TypeName[T Primitive]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
