package query

import (
	"time"

	"github.com/safing/objectbase/database/accessor"
)

// Condition is an interface to provide a common api to all condition types.
type Condition interface {
	complies(acc accessor.Accessor) bool
	check() error
	string() string
}

// Operators.
const (
	Equals             uint8 = iota // int, float, string, bool, date
	NotEquals                       // int, float, string, bool, date
	GreaterThan                     // int, float, string, date
	GreaterThanOrEqual              // int, float, string, date
	LessThan                        // int, float, string, date
	LessThanOrEqual                 // int, float, string, date
	Contains                        // string
	StartsWith                      // string
	EndsWith                        // string
	In                              // list of values
	Matches                         // regex
	Exists                          // any
	errorPresent       uint8 = 255
)

// result is the outcome of evaluating a condition. Comparing a missing
// attribute is unknown, and negating unknown is still unknown.
type result uint8

const (
	resultFalse result = iota
	resultTrue
	resultUnknown
)

func resultOf(b bool) result {
	if b {
		return resultTrue
	}
	return resultFalse
}

func (r result) not() result {
	switch r {
	case resultTrue:
		return resultFalse
	case resultFalse:
		return resultTrue
	default:
		return resultUnknown
	}
}

// evaluator is implemented by conditions that can be unknown.
type evaluator interface {
	evaluate(acc accessor.Accessor) result
}

func evaluate(c Condition, acc accessor.Accessor) result {
	if e, ok := c.(evaluator); ok {
		return e.evaluate(acc)
	}
	return resultOf(c.complies(acc))
}

// attributeCond makes a comparison unknown if the attribute is missing.
type attributeCond struct {
	Condition
	key string
}

func (c *attributeCond) evaluate(acc accessor.Accessor) result {
	if !acc.Exists(c.key) {
		return resultUnknown
	}
	return resultOf(c.Condition.complies(acc))
}

func (c *attributeCond) complies(acc accessor.Accessor) bool {
	return c.evaluate(acc) == resultTrue
}

// Where returns a condition to continue building a query.
// The type of value determines how the attribute is compared. Unsupported
// combinations of operator and value type are reported by Query.Check.
//
// A comparison on an attribute the object does not have never matches, not
// even when negated. Use the Exists operator to test for the attribute.
func Where(key string, operator uint8, value interface{}) Condition {
	if key == "" {
		return newErrorCondition(predicateErr(key, operator, "missing attribute name"))
	}
	if operator == Exists {
		return newExistsCondition(key, operator)
	}

	cond := newComparison(key, operator, value)
	if _, ok := cond.(*errorCondition); ok {
		return cond
	}
	return &attributeCond{Condition: cond, key: key}
}

func newComparison(key string, operator uint8, value interface{}) Condition {
	switch operator {
	case In:
		return newStringSliceCondition(key, operator, value)
	case Matches:
		return newRegexCondition(key, operator, value)
	}

	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return newNumberCondition(key, operator, v)
	case string:
		return newStringCondition(key, operator, v)
	case bool:
		return newBoolCondition(key, operator, v)
	case time.Time:
		return newDateCondition(key, operator, v)
	case *time.Time:
		if v == nil {
			return newErrorCondition(predicateErr(key, operator, "nil date"))
		}
		return newDateCondition(key, operator, *v)
	case nil:
		return newErrorCondition(predicateErr(key, operator, "cannot compare with nil"))
	default:
		return newErrorCondition(predicateErr(key, operator, "unsupported value type %T", value))
	}
}

func isComparison(operator uint8) bool {
	switch operator {
	case Equals, NotEquals, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual:
		return true
	default:
		return false
	}
}
