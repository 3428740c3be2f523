package cmd

import (
	"fmt"
	"sort"
	"strings"

	"tinydb/internal/flatstore"
)

// valueType reads and writes values of one primitive kind.
type valueType struct {
	set func(w *flatstore.Writer, key, raw string) error
	get func(s *flatstore.Store, key string) (any, bool, error)
}

func typed[T flatstore.Primitive]() valueType {
	return valueType{
		set: func(w *flatstore.Writer, key, raw string) error {
			v, err := flatstore.Decode[T](raw)
			if err != nil {
				return err
			}
			return flatstore.Put(w, key, v)
		},
		get: func(s *flatstore.Store, key string) (any, bool, error) {
			v, ok, err := flatstore.GetTyped[T](s, key)
			return v, ok, err
		},
	}
}

// valueTypes maps --type names to their accessors.
var valueTypes = map[string]valueType{
	"bool":    typed[bool](),
	"int8":    typed[int8](),
	"int16":   typed[int16](),
	"int32":   typed[int32](),
	"int64":   typed[int64](),
	"float32": typed[float32](),
	"float64": typed[float64](),
	"string":  typed[string](),
}

// lookupType returns the accessors for name. An empty name means string.
func lookupType(name string) (valueType, error) {
	if name == "" {
		name = "string"
	}
	vt, ok := valueTypes[strings.ToLower(name)]
	if !ok {
		return valueType{}, fmt.Errorf("unknown type %q (valid: %s)", name, strings.Join(typeNames(), ", "))
	}
	return vt, nil
}

func typeNames() []string {
	names := make([]string, 0, len(valueTypes))
	for name := range valueTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
