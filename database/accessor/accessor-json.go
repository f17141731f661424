package accessor

import (
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// JSONAccessor is a json string with get functions.
type JSONAccessor struct {
	json string
}

// NewJSONAccessor adds the Accessor interface to a JSON string.
func NewJSONAccessor(json string) *JSONAccessor {
	return &JSONAccessor{
		json: json,
	}
}

// NewJSONBytesAccessor adds the Accessor interface to JSON bytes.
func NewJSONBytesAccessor(json []byte) *JSONAccessor {
	return &JSONAccessor{
		json: string(json),
	}
}

// GetString returns the string found by the given json key and whether it could be successfully extracted.
func (ja *JSONAccessor) GetString(key string) (value string, ok bool) {
	result := gjson.Get(ja.json, key)
	if !result.Exists() || result.Type != gjson.String {
		return emptyString, false
	}
	return result.String(), true
}

// GetInt returns the int found by the given json key and whether it could be successfully extracted.
// Numbers with a fractional part are not returned as an int.
func (ja *JSONAccessor) GetInt(key string) (value int64, ok bool) {
	result := gjson.Get(ja.json, key)
	if !result.Exists() || result.Type != gjson.Number {
		return 0, false
	}
	if result.Num != math.Trunc(result.Num) {
		return 0, false
	}
	return result.Int(), true
}

// GetFloat returns the float found by the given json key and whether it could be successfully extracted.
func (ja *JSONAccessor) GetFloat(key string) (value float64, ok bool) {
	result := gjson.Get(ja.json, key)
	if !result.Exists() || result.Type != gjson.Number {
		return 0, false
	}
	return result.Float(), true
}

// GetBool returns the bool found by the given json key and whether it could be successfully extracted.
func (ja *JSONAccessor) GetBool(key string) (value bool, ok bool) {
	result := gjson.Get(ja.json, key)
	switch {
	case !result.Exists():
		return false, false
	case result.Type == gjson.True:
		return true, true
	case result.Type == gjson.False:
		return false, true
	default:
		return false, false
	}
}

// GetTime returns the RFC 3339 timestamp found by the given json key and whether it could be successfully extracted.
func (ja *JSONAccessor) GetTime(key string) (value time.Time, ok bool) {
	result := gjson.Get(ja.json, key)
	if !result.Exists() || result.Type != gjson.String {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, result.String())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Exists returns the whether the given key exists.
func (ja *JSONAccessor) Exists(key string) bool {
	result := gjson.Get(ja.json, key)
	return result.Exists()
}

// Type returns the accessor type as a string.
func (ja *JSONAccessor) Type() string {
	return "JSONAccessor"
}
