package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/safing/objectbase/database/accessor"
)

type stringCondition struct {
	key      string
	operator uint8
	value    string

	// alternative interpretations of value for attributes of other types
	number    float64
	isNumber  bool
	date      time.Time
	isDate    bool
	boolean   bool
	isBoolean bool
}

func newStringCondition(key string, operator uint8, value string) Condition {
	switch operator {
	case Equals, NotEquals, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
	case Contains, StartsWith, EndsWith:
	default:
		return newErrorCondition(predicateErr(key, operator, "operator not supported for strings"))
	}

	c := &stringCondition{
		key:      key,
		operator: operator,
		value:    value,
	}

	if isComparison(operator) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			c.number = f
			c.isNumber = true
		}
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			c.date = t
			c.isDate = true
		}
		if operator == Equals || operator == NotEquals {
			if b, err := strconv.ParseBool(value); err == nil {
				c.boolean = b
				c.isBoolean = true
			}
		}
	}

	return c
}

func (c *stringCondition) complies(acc accessor.Accessor) bool {
	attr, ok := acc.GetString(c.key)
	if ok {
		switch c.operator {
		case Contains:
			return strings.Contains(attr, c.value)
		case StartsWith:
			return strings.HasPrefix(attr, c.value)
		case EndsWith:
			return strings.HasSuffix(attr, c.value)
		default:
			return compareOrdered(c.operator, attr, c.value)
		}
	}

	// coerce the literal to the attribute type
	if c.isNumber {
		if attr, ok := acc.GetFloat(c.key); ok {
			return compareOrdered(c.operator, attr, c.number)
		}
	}
	if c.isDate {
		if attr, ok := acc.GetTime(c.key); ok {
			return compareTimes(c.operator, attr, c.date)
		}
	}
	if c.isBoolean {
		if attr, ok := acc.GetBool(c.key); ok {
			return (attr == c.boolean) == (c.operator == Equals)
		}
	}

	return false
}

func (c *stringCondition) check() error {
	return nil
}

func (c *stringCondition) string() string {
	return fmt.Sprintf("%s %s %q", c.key, getOpName(c.operator), c.value)
}
