package query

import (
	"fmt"
	"time"

	"github.com/safing/objectbase/database/accessor"
)

type dateCondition struct {
	key      string
	operator uint8
	value    time.Time
}

func newDateCondition(key string, operator uint8, value time.Time) Condition {
	if !isComparison(operator) {
		return newErrorCondition(predicateErr(key, operator, "operator not supported for dates"))
	}

	return &dateCondition{
		key:      key,
		operator: operator,
		value:    value,
	}
}

func (c *dateCondition) complies(acc accessor.Accessor) bool {
	attr, ok := acc.GetTime(c.key)
	if !ok {
		s, isString := acc.GetString(c.key)
		if !isString {
			return false
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return false
		}
		attr = parsed
	}

	return compareTimes(c.operator, attr, c.value)
}

func (c *dateCondition) check() error {
	return nil
}

func (c *dateCondition) string() string {
	return fmt.Sprintf("%s %s %q", c.key, getOpName(c.operator), c.value.Format(time.RFC3339Nano))
}
