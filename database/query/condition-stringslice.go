package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/safing/objectbase/database/accessor"
	"github.com/safing/objectbase/utils"
)

type stringSliceCondition struct {
	key      string
	operator uint8
	value    []string
}

func newStringSliceCondition(key string, operator uint8, value interface{}) Condition {
	var values []string

	switch v := value.(type) {
	case string:
		values = strings.Split(v, ",")
		for i, entry := range values {
			values[i] = strings.TrimSpace(entry)
		}
	case []string:
		values = utils.DuplicateStrings(v)
	default:
		rv := reflect.ValueOf(value)
		if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
			return newErrorCondition(predicateErr(key, operator, "incompatible value %v for list", value))
		}
		values = make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			entry, ok := formatLiteral(rv.Index(i).Interface())
			if !ok {
				return newErrorCondition(predicateErr(key, operator, "unsupported list entry %v", rv.Index(i).Interface()))
			}
			values = append(values, entry)
		}
	}

	return &stringSliceCondition{
		key:      key,
		operator: operator,
		value:    values,
	}
}

func (c *stringSliceCondition) complies(acc accessor.Accessor) bool {
	comp, ok := attributeString(acc, c.key)
	if !ok {
		return false
	}
	return utils.StringInSlice(comp, c.value)
}

func (c *stringSliceCondition) check() error {
	return nil
}

func (c *stringSliceCondition) string() string {
	return fmt.Sprintf("%s %s %s", c.key, getOpName(c.operator), strings.Join(c.value, ","))
}

// attributeString returns the attribute in the same textual form formatLiteral uses.
func attributeString(acc accessor.Accessor, key string) (string, bool) {
	if s, ok := acc.GetString(key); ok {
		return s, true
	}
	if i, ok := acc.GetInt(key); ok {
		return strconv.FormatInt(i, 10), true
	}
	if f, ok := acc.GetFloat(key); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	if b, ok := acc.GetBool(key); ok {
		return strconv.FormatBool(b), true
	}
	if t, ok := acc.GetTime(key); ok {
		return t.UTC().Format(time.RFC3339Nano), true
	}
	return "", false
}

func formatLiteral(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), true
	default:
		return "", false
	}
}
