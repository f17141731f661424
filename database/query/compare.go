package query

import (
	"cmp"
	"time"
)

func compareOrdered[T cmp.Ordered](operator uint8, attr, value T) bool {
	return compareResult(operator, cmp.Compare(attr, value))
}

func compareTimes(operator uint8, attr, value time.Time) bool {
	return compareResult(operator, attr.Compare(value))
}

func compareResult(operator uint8, result int) bool {
	switch operator {
	case Equals:
		return result == 0
	case NotEquals:
		return result != 0
	case GreaterThan:
		return result > 0
	case GreaterThanOrEqual:
		return result >= 0
	case LessThan:
		return result < 0
	case LessThanOrEqual:
		return result <= 0
	default:
		return false
	}
}
