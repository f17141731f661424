package accessor

import (
	"math"
	"reflect"
	"time"
)

// StructAccessor is a struct with get functions, backed by a Schema.
type StructAccessor struct {
	schema *Schema
	object reflect.Value
}

// lookup resolves the attribute to its (dereferenced) value.
func (sa *StructAccessor) lookup(key string) (*field, reflect.Value, bool) {
	f, ok := sa.schema.fields[key]
	if !ok {
		return nil, reflect.Value{}, false
	}

	val, err := sa.object.FieldByIndexErr(f.index)
	if err != nil {
		// nil pointer on the way
		return nil, reflect.Value{}, false
	}
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, reflect.Value{}, false
		}
		val = val.Elem()
	}
	return f, val, true
}

// GetString returns the string found by the given key and whether it could be successfully extracted.
func (sa *StructAccessor) GetString(key string) (value string, ok bool) {
	f, val, ok := sa.lookup(key)
	if !ok || f.kind != kindString {
		return emptyString, false
	}
	return val.String(), true
}

// GetInt returns the int found by the given key and whether it could be successfully extracted.
func (sa *StructAccessor) GetInt(key string) (value int64, ok bool) {
	f, val, ok := sa.lookup(key)
	if !ok {
		return 0, false
	}
	switch f.kind {
	case kindInt:
		return val.Int(), true
	case kindUint:
		u := val.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// GetFloat returns the float found by the given key and whether it could be successfully extracted.
// Integer attributes are converted.
func (sa *StructAccessor) GetFloat(key string) (value float64, ok bool) {
	f, val, ok := sa.lookup(key)
	if !ok {
		return 0, false
	}
	switch f.kind {
	case kindFloat:
		return val.Float(), true
	case kindInt:
		return float64(val.Int()), true
	case kindUint:
		return float64(val.Uint()), true
	default:
		return 0, false
	}
}

// GetBool returns the bool found by the given key and whether it could be successfully extracted.
func (sa *StructAccessor) GetBool(key string) (value bool, ok bool) {
	f, val, ok := sa.lookup(key)
	if !ok || f.kind != kindBool {
		return false, false
	}
	return val.Bool(), true
}

// GetTime returns the time found by the given key and whether it could be successfully extracted.
func (sa *StructAccessor) GetTime(key string) (value time.Time, ok bool) {
	f, val, ok := sa.lookup(key)
	if !ok || f.kind != kindTime {
		return time.Time{}, false
	}
	t, ok := val.Interface().(time.Time)
	return t, ok
}

// Exists returns the whether the given key exists and is not a nil pointer.
func (sa *StructAccessor) Exists(key string) bool {
	_, _, ok := sa.lookup(key)
	return ok
}

// Type returns the accessor type as a string.
func (sa *StructAccessor) Type() string {
	return "StructAccessor"
}
