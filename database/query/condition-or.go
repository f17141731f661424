package query

import (
	"fmt"
	"strings"

	"github.com/safing/objectbase/database/accessor"
)

// Or combines multiple conditions with a logical _OR_ operator.
func Or(conditions ...Condition) Condition {
	return &orCond{
		conditions: conditions,
	}
}

type orCond struct {
	conditions []Condition
}

func (c *orCond) evaluate(acc accessor.Accessor) result {
	res := resultFalse
	for _, cond := range c.conditions {
		switch evaluate(cond, acc) {
		case resultTrue:
			return resultTrue
		case resultUnknown:
			res = resultUnknown
		}
	}
	return res
}

func (c *orCond) complies(acc accessor.Accessor) bool {
	return c.evaluate(acc) == resultTrue
}

func (c *orCond) check() (err error) {
	for _, cond := range c.conditions {
		err = cond.check()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *orCond) string() string {
	all := make([]string, 0, len(c.conditions))
	for _, cond := range c.conditions {
		all = append(all, cond.string())
	}
	return fmt.Sprintf("(%s)", strings.Join(all, " or "))
}
