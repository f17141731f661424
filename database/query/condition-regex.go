package query

import (
	"fmt"
	"regexp"

	"github.com/safing/objectbase/database/accessor"
)

type regexCondition struct {
	key      string
	operator uint8
	regex    *regexp.Regexp
}

func newRegexCondition(key string, operator uint8, value interface{}) Condition {
	switch v := value.(type) {
	case string:
		r, err := regexp.Compile(v)
		if err != nil {
			return newErrorCondition(predicateErr(key, operator, "could not compile regex %q: %s", v, err))
		}
		return &regexCondition{
			key:      key,
			operator: operator,
			regex:    r,
		}
	case *regexp.Regexp:
		if v == nil {
			return newErrorCondition(predicateErr(key, operator, "nil regex"))
		}
		return &regexCondition{
			key:      key,
			operator: operator,
			regex:    v,
		}
	default:
		return newErrorCondition(predicateErr(key, operator, "incompatible value %v for regex", value))
	}
}

func (c *regexCondition) complies(acc accessor.Accessor) bool {
	attr, ok := acc.GetString(c.key)
	if !ok {
		return false
	}
	return c.regex.MatchString(attr)
}

func (c *regexCondition) check() error {
	return nil
}

func (c *regexCondition) string() string {
	return fmt.Sprintf("%s %s %q", c.key, getOpName(c.operator), c.regex.String())
}
