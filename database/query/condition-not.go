package query

import (
	"fmt"
	"strings"

	"github.com/safing/objectbase/database/accessor"
)

// Not negates the supplied condition.
func Not(c Condition) Condition {
	return &notCond{
		notC: c,
	}
}

type notCond struct {
	notC Condition
}

func (c *notCond) evaluate(acc accessor.Accessor) result {
	return evaluate(c.notC, acc).not()
}

func (c *notCond) complies(acc accessor.Accessor) bool {
	return c.evaluate(acc) == resultTrue
}

func (c *notCond) check() error {
	return c.notC.check()
}

func (c *notCond) string() string {
	next := c.notC.string()
	if strings.HasPrefix(next, "(") {
		return fmt.Sprintf("not %s", next)
	}
	return fmt.Sprintf("not (%s)", next)
}
