package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenType uint8

const (
	tokEOF tokenType = iota
	tokIdent
	tokValue
	tokOperator
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
)

type token struct {
	typ   tokenType
	text  string
	value interface{}
	pos   int
}

// ParseWhere parses a filter expression into a condition. Arguments are
// substituted for placeholders in order:
//
//	%d %i %f %s %@ %v %t   a value of the argument's type
//	%K                     an attribute name
//
// Example:
//
//	ParseWhere("age > %d and (name beginswith %@ or admin == true)", 30, "A")
//
// Supported operators are ==, =, !=, <>, >, >=, <, <=, contains,
// beginswith (startswith), endswith, matches, in and exists. Keywords are
// case insensitive; &&, || and ! may be used instead of and, or and not.
// Lists are written as {1, 2, 3}.
func ParseWhere(format string, args ...interface{}) (Condition, error) {
	tokens, err := tokenize(format, args)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	if p.peek().typ == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokEOF {
		return nil, syntaxErr(tok, "unexpected token after expression")
	}
	return cond, nil
}

func tokenize(format string, args []interface{}) ([]*token, error) {
	var tokens []*token
	runes := []rune(format)
	argIndex := 0

	for i := 0; i < len(runes); {
		r := runes[i]
		start := i

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '%':
			if i+1 >= len(runes) {
				return nil, &SyntaxError{Pos: i, Symbol: "%", Msg: "incomplete placeholder"}
			}
			verb := runes[i+1]
			i += 2
			if verb == '%' {
				return nil, &SyntaxError{Pos: start, Symbol: "%%", Msg: "literal percent sign outside of a string"}
			}
			if argIndex >= len(args) {
				return nil, &SyntaxError{Pos: start, Symbol: string(runes[start:i]), Msg: "missing argument for placeholder"}
			}
			arg := args[argIndex]
			argIndex++

			switch verb {
			case 'K':
				name, ok := arg.(string)
				if !ok || name == "" {
					return nil, &SyntaxError{Pos: start, Symbol: "%K", Msg: fmt.Sprintf("attribute name must be a non-empty string, got %T", arg)}
				}
				tokens = append(tokens, &token{typ: tokIdent, text: name, pos: start})
			case 'd', 'i', 'f', 'g', 's', '@', 'v', 't':
				tokens = append(tokens, &token{typ: tokValue, text: string(runes[start:i]), value: arg, pos: start})
			default:
				return nil, &SyntaxError{Pos: start, Symbol: string(runes[start:i]), Msg: "unknown placeholder"}
			}

		case r == '"' || r == '\'':
			s, end, err := readQuoted(runes, i)
			if err != nil {
				return nil, err
			}
			i = end
			tokens = append(tokens, &token{typ: tokValue, text: string(runes[start:i]), value: s, pos: start})

		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || strings.ContainsRune(".eE+-", runes[i])) {
				// only allow signs directly after an exponent
				if (runes[i] == '+' || runes[i] == '-') && runes[i-1] != 'e' && runes[i-1] != 'E' {
					break
				}
				i++
			}
			text := string(runes[start:i])
			value, err := parseNumber(text)
			if err != nil {
				return nil, &SyntaxError{Pos: start, Symbol: text, Msg: "invalid number"}
			}
			tokens = append(tokens, &token{typ: tokValue, text: text, value: value, pos: start})

		case unicode.IsLetter(r) || r == '_':
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			tokens = append(tokens, wordToken(text, start))

		case r == '(':
			i++
			tokens = append(tokens, &token{typ: tokLParen, text: "(", pos: start})
		case r == ')':
			i++
			tokens = append(tokens, &token{typ: tokRParen, text: ")", pos: start})
		case r == '{':
			i++
			tokens = append(tokens, &token{typ: tokLBrace, text: "{", pos: start})
		case r == '}':
			i++
			tokens = append(tokens, &token{typ: tokRBrace, text: "}", pos: start})
		case r == ',':
			i++
			tokens = append(tokens, &token{typ: tokComma, text: ",", pos: start})

		default:
			// symbolic operators
			two := ""
			if i+1 < len(runes) {
				two = string(runes[i : i+2])
			}
			switch {
			case two == "&&":
				i += 2
				tokens = append(tokens, &token{typ: tokAnd, text: two, pos: start})
			case two == "||":
				i += 2
				tokens = append(tokens, &token{typ: tokOr, text: two, pos: start})
			case two != "" && isSymbolicOperator(two):
				i += 2
				tokens = append(tokens, &token{typ: tokOperator, text: two, pos: start})
			case r == '!':
				i++
				tokens = append(tokens, &token{typ: tokNot, text: "!", pos: start})
			case isSymbolicOperator(string(r)):
				i++
				tokens = append(tokens, &token{typ: tokOperator, text: string(r), pos: start})
			default:
				return nil, &SyntaxError{Pos: start, Symbol: string(r), Msg: "unexpected character"}
			}
		}
	}

	if argIndex != len(args) {
		return nil, &SyntaxError{Pos: len(runes), Msg: fmt.Sprintf("%d unused arguments", len(args)-argIndex)}
	}

	tokens = append(tokens, &token{typ: tokEOF, pos: len(runes)})
	return tokens, nil
}

func isSymbolicOperator(s string) bool {
	switch s {
	case "==", "=", "!=", "<>", ">", ">=", "=>", "<", "<=", "=<":
		return true
	default:
		return false
	}
}

func wordToken(text string, pos int) *token {
	switch strings.ToLower(text) {
	case "and":
		return &token{typ: tokAnd, text: text, pos: pos}
	case "or":
		return &token{typ: tokOr, text: text, pos: pos}
	case "not":
		return &token{typ: tokNot, text: text, pos: pos}
	case "true", "yes":
		return &token{typ: tokValue, text: text, value: true, pos: pos}
	case "false", "no":
		return &token{typ: tokValue, text: text, value: false, pos: pos}
	case "contains", "beginswith", "startswith", "endswith", "matches", "in", "exists":
		return &token{typ: tokOperator, text: text, pos: pos}
	}
	return &token{typ: tokIdent, text: text, pos: pos}
}

func readQuoted(runes []rune, start int) (value string, end int, err error) {
	quote := runes[start]
	var sb strings.Builder

	for i := start + 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 >= len(runes) {
				return "", 0, &SyntaxError{Pos: i, Symbol: "\\", Msg: "unfinished escape sequence"}
			}
			i++
			switch runes[i] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(runes[i])
			}
		case quote:
			return sb.String(), i + 1, nil
		default:
			sb.WriteRune(runes[i])
		}
	}

	return "", 0, &SyntaxError{Pos: start, Symbol: string(quote), Msg: "unterminated string"}
}

func parseNumber(text string) (interface{}, error) {
	if !strings.ContainsAny(text, ".eE") {
		i, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return i, nil
		}
	}
	return strconv.ParseFloat(text, 64)
}

type parser struct {
	tokens []*token
	pos    int
}

func (p *parser) peek() *token {
	return p.tokens[p.pos]
}

func (p *parser) next() *token {
	tok := p.tokens[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Condition, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	conditions := []Condition{first}
	for p.peek().typ == tokOr {
		p.next()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, next)
	}

	if len(conditions) == 1 {
		return first, nil
	}
	return Or(conditions...), nil
}

func (p *parser) parseAnd() (Condition, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	conditions := []Condition{first}
	for p.peek().typ == tokAnd {
		p.next()
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, next)
	}

	if len(conditions) == 1 {
		return first, nil
	}
	return And(conditions...), nil
}

func (p *parser) parseUnary() (Condition, error) {
	tok := p.next()

	switch tok.typ {
	case tokNot:
		cond, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(cond), nil

	case tokLParen:
		cond, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokRParen {
			return nil, syntaxErr(closing, "expected closing parenthesis")
		}
		return cond, nil

	case tokIdent:
		return p.parseComparison(tok)

	case tokEOF:
		return nil, syntaxErr(tok, "unexpected end of expression")

	default:
		return nil, syntaxErr(tok, "expected attribute name, \"not\" or \"(\"")
	}
}

func (p *parser) parseComparison(key *token) (Condition, error) {
	opTok := p.next()
	if opTok.typ != tokOperator {
		return nil, syntaxErr(opTok, "expected operator")
	}
	operator, _ := ParseOperator(opTok.text)

	if operator == Exists {
		return Where(key.text, operator, nil), nil
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return Where(key.text, operator, value), nil
}

func (p *parser) parseValue() (interface{}, error) {
	tok := p.next()

	switch tok.typ {
	case tokValue:
		return tok.value, nil

	case tokLBrace:
		list := make([]interface{}, 0)
		if p.peek().typ == tokRBrace {
			p.next()
			return list, nil
		}
		for {
			valTok := p.next()
			if valTok.typ != tokValue {
				return nil, syntaxErr(valTok, "expected value in list")
			}
			list = append(list, valTok.value)

			sep := p.next()
			switch sep.typ {
			case tokComma:
			case tokRBrace:
				return list, nil
			default:
				return nil, syntaxErr(sep, "expected \",\" or \"}\" in list")
			}
		}

	default:
		return nil, syntaxErr(tok, "expected value")
	}
}
