package query

import "strings"

var (
	operatorNames = map[string]uint8{
		"==":         Equals,
		"=":          Equals,
		"!=":         NotEquals,
		"<>":         NotEquals,
		">":          GreaterThan,
		">=":         GreaterThanOrEqual,
		"=>":         GreaterThanOrEqual,
		"<":          LessThan,
		"<=":         LessThanOrEqual,
		"=<":         LessThanOrEqual,
		"contains":   Contains,
		"co":         Contains,
		"startswith": StartsWith,
		"beginswith": StartsWith,
		"sw":         StartsWith,
		"endswith":   EndsWith,
		"ew":         EndsWith,
		"in":         In,
		"matches":    Matches,
		"re":         Matches,
		"exists":     Exists,
		"ex":         Exists,
	}

	primaryNames = map[uint8]string{
		Equals:             "==",
		NotEquals:          "!=",
		GreaterThan:        ">",
		GreaterThanOrEqual: ">=",
		LessThan:           "<",
		LessThanOrEqual:    "<=",
		Contains:           "contains",
		StartsWith:         "startswith",
		EndsWith:           "endswith",
		In:                 "in",
		Matches:            "matches",
		Exists:             "exists",
	}
)

func getOpName(operator uint8) string {
	name, ok := primaryNames[operator]
	if ok {
		return name
	}
	return "[unknown]"
}

// ParseOperator returns the operator with the given name, eg. ">=" or "contains".
func ParseOperator(name string) (operator uint8, ok bool) {
	operator, ok = operatorNames[strings.ToLower(name)]
	return operator, ok
}
