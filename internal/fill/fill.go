// Package fill populates typed entities from untrusted JSON-decoded maps.
//
// Instead of reflecting over setters at runtime, each entity declares a
// static Schema binding payload keys to coercion kinds and setter
// closures. Apply never fails: unknown keys are skipped and values that
// cannot be coerced fall back to the kind's zero value. Validation of the
// resulting entity is a separate downstream step.
package fill

import (
	"strconv"
	"strings"
)

// Kind selects the coercion applied before a setter is invoked.
type Kind int

const (
	// Any passes the raw value through untouched.
	Any Kind = iota
	Bool
	Int
	Float
	String
	Slice
)

// Field binds one payload key to a setter on the target entity.
// Nullable fields receive a nil value unchanged instead of a coerced one.
type Field struct {
	Name     string
	Kind     Kind
	Nullable bool
	Set      func(v any)
}

// Schema is the ordered set of fillable fields an entity exposes.
type Schema []Field

// Apply walks data and invokes the matching setter for every known key,
// coercing each value to the field's kind first. Keys without a schema
// entry are ignored. The coerced value handed to Set is guaranteed to be
// bool, int64, float64, string or []any according to the field's kind
// (or nil for a nullable field given null).
func Apply(s Schema, data map[string]any) {
	for _, f := range s {
		raw, ok := data[f.Name]
		if !ok {
			continue
		}
		if raw == nil && f.Nullable {
			f.Set(nil)
			continue
		}
		f.Set(coerce(raw, f.Kind))
	}
}

func coerce(v any, kind Kind) any {
	switch kind {
	case Bool:
		return AsBool(v)
	case Int:
		return AsInt(v)
	case Float:
		return AsFloat(v)
	case String:
		return AsString(v)
	case Slice:
		return AsSlice(v)
	default:
		return v
	}
}

// AsBool coerces v to a boolean. Strings match "true", "1", "yes" and
// "on" case-insensitively; numbers convert by truthiness; everything
// else is false.
func AsBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(t) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	}
	if f, ok := numeric(v); ok {
		return f != 0
	}
	return false
}

// AsInt coerces v to an int64, truncating fractional parts. Non-numeric
// input yields 0: fill is deliberately permissive and leaves rejecting
// bad values to entity validation.
func AsInt(v any) int64 {
	switch t := v.(type) {
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int64(f)
		}
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	}
	if f, ok := numeric(v); ok {
		return int64(f)
	}
	return 0
}

// AsFloat coerces v to a float64. Non-numeric input yields 0.
func AsFloat(v any) float64 {
	switch t := v.(type) {
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	}
	if f, ok := numeric(v); ok {
		return f
	}
	return 0
}

// AsString stringifies scalar values. Non-scalar values yield "".
func AsString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// AsSlice passes slices through and wraps any other value into a
// single-element slice.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{v}
}

func numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
