package query

import (
	"fmt"
	"strconv"

	"github.com/safing/objectbase/database/accessor"
)

type boolCondition struct {
	key      string
	operator uint8
	value    bool
}

func newBoolCondition(key string, operator uint8, value bool) Condition {
	switch operator {
	case Equals, NotEquals:
	default:
		return newErrorCondition(predicateErr(key, operator, "operator not supported for booleans"))
	}

	return &boolCondition{
		key:      key,
		operator: operator,
		value:    value,
	}
}

func (c *boolCondition) complies(acc accessor.Accessor) bool {
	attr, ok := acc.GetBool(c.key)
	if !ok {
		s, isString := acc.GetString(c.key)
		if !isString {
			return false
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		attr = parsed
	}

	if c.operator == Equals {
		return attr == c.value
	}
	return attr != c.value
}

func (c *boolCondition) check() error {
	return nil
}

func (c *boolCondition) string() string {
	return fmt.Sprintf("%s %s %t", c.key, getOpName(c.operator), c.value)
}
