package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/safing/objectbase/database/accessor"
)

type numberCondition struct {
	key        string
	operator   uint8
	isInt      bool
	intValue   int64
	floatValue float64
}

func newNumberCondition(key string, operator uint8, value interface{}) Condition {
	if !isComparison(operator) {
		return newErrorCondition(predicateErr(key, operator, "operator not supported for numbers"))
	}

	c := &numberCondition{
		key:      key,
		operator: operator,
	}

	switch v := value.(type) {
	case int:
		c.setInt(int64(v))
	case int8:
		c.setInt(int64(v))
	case int16:
		c.setInt(int64(v))
	case int32:
		c.setInt(int64(v))
	case int64:
		c.setInt(v)
	case uint:
		c.setUint(uint64(v))
	case uint8:
		c.setInt(int64(v))
	case uint16:
		c.setInt(int64(v))
	case uint32:
		c.setInt(int64(v))
	case uint64:
		c.setUint(v)
	case float32:
		c.floatValue = float64(v)
	case float64:
		c.floatValue = v
	default:
		return newErrorCondition(predicateErr(key, operator, "incompatible value %v for number", value))
	}

	if math.IsNaN(c.floatValue) {
		return newErrorCondition(predicateErr(key, operator, "cannot compare with NaN"))
	}
	return c
}

func (c *numberCondition) setInt(v int64) {
	c.isInt = true
	c.intValue = v
	c.floatValue = float64(v)
}

func (c *numberCondition) setUint(v uint64) {
	if v > math.MaxInt64 {
		c.floatValue = float64(v)
		return
	}
	c.setInt(int64(v))
}

func (c *numberCondition) complies(acc accessor.Accessor) bool {
	if c.isInt {
		if attr, ok := acc.GetInt(c.key); ok {
			return compareOrdered(c.operator, attr, c.intValue)
		}
	}

	if attr, ok := acc.GetFloat(c.key); ok {
		return compareOrdered(c.operator, attr, c.floatValue)
	}

	// numeric strings
	if s, ok := acc.GetString(c.key); ok {
		attr, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return compareOrdered(c.operator, attr, c.floatValue)
		}
	}

	return false
}

func (c *numberCondition) check() error {
	return nil
}

func (c *numberCondition) string() string {
	if c.isInt {
		return fmt.Sprintf("%s %s %d", c.key, getOpName(c.operator), c.intValue)
	}
	return fmt.Sprintf("%s %s %g", c.key, getOpName(c.operator), c.floatValue)
}
