// Package row provides uniform field access over the two row shapes the
// parser consumes: key-value mappings and attribute-bearing objects (structs).
// Lookup distinguishes three outcomes: the field is present (possibly with a
// nil value), the field is absent, or the row itself misbehaved (its Get
// panicked). The convenience helpers treat misbehavior as absence; getters
// that must surface faulty rows as typed failures use Lookup directly.
package row

import (
	"fmt"
	"reflect"
	"strings"
)

// Getter is the capability interface a custom row type may implement to take
// over field resolution. The second return reports presence.
type Getter interface {
	Get(name string) (any, bool)
}

// Map is a plain key-value row.
type Map map[string]any

// Get implements Getter.
func (m Map) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Lookup resolves name against the row. It returns the value and whether the
// field is present; a row whose accessor panics yields a non-nil error.
func Lookup(row any, name string) (any, bool, error) {
	if row == nil {
		return nil, false, nil
	}

	if g, isGetter := row.(Getter); isGetter {
		v, ok, err := safeGet(g, name)
		if err == nil && ok {
			return v, true, nil
		}
		// A partial or faulty Get still allows attribute resolution.
		if v, ok := lookupAttr(reflect.ValueOf(row), name); ok {
			return v, true, nil
		}
		return nil, false, err
	}

	switch r := row.(type) {
	case map[string]any:
		v, ok := r[name]
		return v, ok, nil
	case map[string]string:
		v, ok := r[name]
		return v, ok, nil
	case map[string]float64:
		v, ok := r[name]
		return v, ok, nil
	}

	v, ok := lookupAttr(reflect.ValueOf(row), name)
	return v, ok, nil
}

func safeGet(g Getter, name string) (v any, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
			err = fmt.Errorf("row accessor panicked resolving %q: %v", name, r)
		}
	}()
	v, ok = g.Get(name)
	return v, ok, nil
}

// GetField returns the row's value for name if the field is present,
// including when the stored value is nil or zero, and nil otherwise.
func GetField(row any, name string) any {
	return GetFieldDefault(row, name, nil)
}

// GetFieldDefault returns the row's value for name if present, else def.
// Faulty rows count as absent here.
func GetFieldDefault(row any, name string, def any) any {
	v, ok, err := Lookup(row, name)
	if err != nil || !ok {
		return def
	}
	return v
}

// HasField reports whether the field is present in the row, independent of
// its value.
func HasField(row any, name string) bool {
	_, ok, err := Lookup(row, name)
	return err == nil && ok
}

// lookupAttr resolves name against the exported fields of a struct or
// pointer-to-struct row. Field names match case-insensitively, and a
// `row:"..."` tag overrides the field name.
func lookupAttr(v reflect.Value, name string) (any, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		candidate := field.Name
		if tag, ok := field.Tag.Lookup("row"); ok && tag != "" {
			candidate = tag
		}
		if strings.EqualFold(candidate, name) {
			return v.Field(i).Interface(), true
		}
	}
	return nil, false
}
