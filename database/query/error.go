package query

import "fmt"

// PredicateError is returned for predicates that cannot be evaluated, such
// as unsupported operator and value type combinations.
type PredicateError struct {
	Key      string
	Operator string
	Msg      string
}

func (pe *PredicateError) Error() string {
	if pe.Key == "" {
		return fmt.Sprintf("invalid predicate: %s", pe.Msg)
	}
	return fmt.Sprintf("invalid predicate %q %s: %s", pe.Key, pe.Operator, pe.Msg)
}

func predicateErr(key string, operator uint8, format string, a ...interface{}) error {
	return &PredicateError{
		Key:      key,
		Operator: getOpName(operator),
		Msg:      fmt.Sprintf(format, a...),
	}
}

// SyntaxError is a generic syntax error.
type SyntaxError struct {
	Msg    string
	Pos    int
	Symbol string
}

func (se *SyntaxError) Error() string {
	if se.Symbol != "" {
		return fmt.Sprintf("syntax error: %q at position %d: %s", se.Symbol, se.Pos, se.Msg)
	}
	return fmt.Sprintf("syntax error: position %d: %s", se.Pos, se.Msg)
}

func syntaxErr(tok *token, msg string) error {
	return &SyntaxError{Symbol: tok.text, Pos: tok.pos, Msg: msg}
}
