package runtimejs

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// ErrCycle is returned when serialising a capture graph that contains a
// reference cycle. The documented lossy-serialisation behaviours
// (NaN/Infinity -> null, undefined -> dropped key) degrade gracefully;
// a cycle cannot, so it fails the render outright rather than looping
// forever or silently truncating.
var ErrCycle = errors.New("runtimejs: cyclic value cannot be serialised")

// Serialize renders pairs as a single JSON object, with keys emitted in
// the exact input iteration order. Writing each member as an explicit
// (name, value) token pair, rather than handing a Go map to a
// general-purpose marshaler, makes that order a consequence of the call
// site rather than a fact about how some library happens to walk a map.
func Serialize(pairs []Pair) (string, error) {
	var buf jsontext.Value
	enc := jsontext.NewEncoder((*valueWriter)(&buf))

	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return "", err
	}
	seen := make(map[uintptr]bool)
	for _, p := range pairs {
		if isUndefined(p.Value) {
			continue // undefined vanishes under serialisation
		}
		if err := enc.WriteToken(jsontext.String(p.Name)); err != nil {
			return "", err
		}
		if err := encodeValue(enc, p.Value, seen); err != nil {
			return "", err
		}
	}
	if err := enc.WriteToken(jsontext.EndObject); err != nil {
		return "", err
	}
	// The streaming encoder ends each top-level value with a newline; the
	// payload is spliced inline into the script body, so drop it.
	return strings.TrimSuffix(string(buf), "\n"), nil
}

// isUndefined reports whether v represents the JS "undefined" sentinel
// (a nil interface value). Resolve returns nil for a pending resource
// with no Await function, which should likewise be treated as absent
// rather than serialised as JSON null.
func isUndefined(v any) bool {
	return v == nil
}

func encodeValue(enc *jsontext.Encoder, v any, seen map[uintptr]bool) error {
	switch val := v.(type) {
	case nil:
		return enc.WriteToken(jsontext.Null)
	case bool:
		return enc.WriteToken(jsontext.Bool(val))
	case string:
		return enc.WriteToken(jsontext.String(val))
	case float64:
		return encodeFloat(enc, val)
	case float32:
		return encodeFloat(enc, float64(val))
	case int:
		return enc.WriteToken(jsontext.Int(int64(val)))
	case int64:
		return enc.WriteToken(jsontext.Int(val))
	case []Pair:
		return encodeObject(enc, val, seen)
	case map[string]any:
		return encodeMap(enc, val, seen)
	case []any:
		return encodeSlice(enc, val, seen)
	default:
		return encodeReflect(enc, reflect.ValueOf(v), seen)
	}
}

func encodeFloat(enc *jsontext.Encoder, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// NaN/Infinity become null; this is documented, intentional loss.
		return enc.WriteToken(jsontext.Null)
	}
	return enc.WriteToken(jsontext.Float(f))
}

func encodeObject(enc *jsontext.Encoder, pairs []Pair, seen map[uintptr]bool) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, p := range pairs {
		if isUndefined(p.Value) {
			continue
		}
		if err := enc.WriteToken(jsontext.String(p.Name)); err != nil {
			return err
		}
		if err := encodeValue(enc, p.Value, seen); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func encodeMap(enc *jsontext.Encoder, m map[string]any, seen map[uintptr]bool) error {
	ptr := reflect.ValueOf(m).Pointer()
	if seen[ptr] {
		return ErrCycle
	}
	seen[ptr] = true
	defer delete(seen, ptr)

	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for k, val := range m {
		if isUndefined(val) {
			continue
		}
		if err := enc.WriteToken(jsontext.String(k)); err != nil {
			return err
		}
		if err := encodeValue(enc, val, seen); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func encodeSlice(enc *jsontext.Encoder, s []any, seen map[uintptr]bool) error {
	ptr := reflect.ValueOf(s).Pointer()
	if len(s) > 0 {
		if seen[ptr] {
			return ErrCycle
		}
		seen[ptr] = true
		defer delete(seen, ptr)
	}

	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, elem := range s {
		if isUndefined(elem) {
			if err := enc.WriteToken(jsontext.Null); err != nil {
				return err
			}
			continue
		}
		if err := encodeValue(enc, elem, seen); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

// encodeReflect is the fallback path for scalar types this package has
// no named case for (e.g. a typed int alias a host passes through a
// resolved resource payload). Structs, pointers, and any other
// non-scalar kind are not encoded: they return an error.
func encodeReflect(enc *jsontext.Encoder, rv reflect.Value, seen map[uintptr]bool) error {
	switch rv.Kind() {
	case reflect.Invalid:
		return enc.WriteToken(jsontext.Null)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return enc.WriteToken(jsontext.Int(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return enc.WriteToken(jsontext.Uint(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return encodeFloat(enc, rv.Float())
	case reflect.Bool:
		return enc.WriteToken(jsontext.Bool(rv.Bool()))
	case reflect.String:
		return enc.WriteToken(jsontext.String(rv.String()))
	default:
		return fmt.Errorf("runtimejs: value of kind %s is not JSON-serialisable", rv.Kind())
	}
}

// valueWriter adapts a jsontext.Value into an io.Writer target so a
// single Encoder can stream tokens directly into an in-memory buffer.
type valueWriter jsontext.Value

func (w *valueWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
