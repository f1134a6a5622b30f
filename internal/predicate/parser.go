// Package predicate implements the filter condition language used to
// restrict comparison rows: a small Pythonic boolean expression over
// run and example fields, e.g.
//
//	error is not None
//	latency_ms > 1500 and output contains "refund"
//	not (tokens_total >= 4096 or cost_usd > 0.5)
//
// Conditions are parsed and type-checked here; the adopted condition is
// compiled to SQL by ToSQL and applied server-side.
package predicate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is a parsed boolean expression.
type Expr interface {
	exprNode()
}

// Logical is an "and"/"or" of two subexpressions.
type Logical struct {
	Op    string // "and" or "or"
	Left  Expr
	Right Expr
}

// Not negates a subexpression.
type Not struct {
	Expr Expr
}

// Compare is a binary comparison between a field and a literal, or two
// fields of the same type.
type Compare struct {
	Op    string // "==", "!=", "<", "<=", ">", ">="
	Left  Operand
	Right Operand
}

// Contains is a substring test on a string field.
type Contains struct {
	Field   string
	Value   string
	Negated bool
}

// IsNone tests a nullable field for absence.
type IsNone struct {
	Field   string
	Negated bool
}

func (Logical) exprNode()  {}
func (Not) exprNode()      {}
func (Compare) exprNode()  {}
func (Contains) exprNode() {}
func (IsNone) exprNode()   {}

// Operand is a comparison operand: a field reference or a literal.
type Operand struct {
	Field string // non-empty for field references
	Str   *string
	Num   *float64
}

func (o Operand) isField() bool { return o.Field != "" }

// SyntaxError reports an invalid condition with the byte offset of the
// offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Msg, e.Pos)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp     // == != < <= > >=
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.input[l.pos]

	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == '"' || c == '\'':
		quote := c
		l.pos++
		var sb strings.Builder
		for l.pos < len(l.input) {
			ch := l.input[l.pos]
			if ch == '\\' && l.pos+1 < len(l.input) {
				sb.WriteByte(l.input[l.pos+1])
				l.pos += 2
				continue
			}
			if ch == quote {
				l.pos++
				return token{kind: tokString, text: sb.String(), pos: start}, nil
			}
			sb.WriteByte(ch)
			l.pos++
		}
		return token{}, &SyntaxError{Pos: start, Msg: "unterminated string"}
	case strings.ContainsRune("=!<>", rune(c)):
		op := string(c)
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			op += "="
			l.pos++
		}
		switch op {
		case "==", "!=", "<", "<=", ">", ">=":
			return token{kind: tokOp, text: op, pos: start}, nil
		case "=":
			return token{}, &SyntaxError{Pos: start, Msg: "invalid operator \"=\", use \"==\""}
		default:
			return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid operator %q", op)}
		}
	case unicode.IsDigit(rune(c)) || c == '.' || c == '-':
		for l.pos < len(l.input) && (unicode.IsDigit(rune(l.input[l.pos])) || l.input[l.pos] == '.' || l.input[l.pos] == '-') {
			l.pos++
		}
		text := l.input[start:l.pos]
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", text)}
		}
		return token{kind: tokNumber, text: text, pos: start}, nil
	case unicode.IsLetter(rune(c)) || c == '_':
		for l.pos < len(l.input) {
			ch := rune(l.input[l.pos])
			if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
				break
			}
			l.pos++
		}
		return token{kind: tokIdent, text: l.input[start:l.pos], pos: start}, nil
	default:
		return token{}, &SyntaxError{Pos: start, Msg: fmt.Sprintf("unexpected character %q", string(c))}
	}
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// Parse parses and type-checks a filter condition. An empty or
// whitespace-only condition is rejected; callers treat the empty string
// as "no filter" before ever reaching the parser.
func Parse(condition string) (Expr, error) {
	if strings.TrimSpace(condition) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty condition"}
	}
	p := &parser{lex: &lexer{input: condition}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("unexpected %q", p.tok.text)}
	}
	return expr, nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokIdent && p.tok.text == "or" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokIdent && p.tok.text == "and" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.tok.kind == tokIdent && p.tok.text == "not" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Expr: inner}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.tok.kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: "expected \")\""}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	leftPos := p.tok.pos
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	switch {
	case p.tok.kind == tokOp:
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		rightPos := p.tok.pos
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		cmp := Compare{Op: op, Left: left, Right: right}
		if err := checkCompare(cmp, leftPos, rightPos); err != nil {
			return nil, err
		}
		return cmp, nil

	case p.tok.kind == tokIdent && p.tok.text == "contains":
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.finishContains(left, leftPos, false)

	case p.tok.kind == tokIdent && p.tok.text == "is":
		if err := p.advance(); err != nil {
			return nil, err
		}
		negated := false
		if p.tok.kind == tokIdent && p.tok.text == "not" {
			negated = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.kind != tokIdent || (p.tok.text != "None" && p.tok.text != "none" && p.tok.text != "null") {
			return nil, &SyntaxError{Pos: p.tok.pos, Msg: "expected \"None\" after \"is\""}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !left.isField() {
			return nil, &SyntaxError{Pos: leftPos, Msg: "\"is None\" requires a field"}
		}
		f, _ := FieldByName(left.Field)
		if !f.Nullable {
			return nil, &SyntaxError{Pos: leftPos, Msg: fmt.Sprintf("field %q is never None", left.Field)}
		}
		return IsNone{Field: left.Field, Negated: negated}, nil

	default:
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: "expected a comparison"}
	}
}

func (p *parser) finishContains(left Operand, leftPos int, negated bool) (Expr, error) {
	if !left.isField() {
		return nil, &SyntaxError{Pos: leftPos, Msg: "\"contains\" requires a field on the left"}
	}
	f, _ := FieldByName(left.Field)
	if f.Type != FieldTypeString {
		return nil, &SyntaxError{Pos: leftPos, Msg: fmt.Sprintf("field %q is numeric, \"contains\" needs a text field", left.Field)}
	}
	if p.tok.kind != tokString {
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: "\"contains\" requires a quoted string"}
	}
	value := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return Contains{Field: left.Field, Value: value, Negated: negated}, nil
}

func (p *parser) parseOperand() (Operand, error) {
	switch p.tok.kind {
	case tokIdent:
		name := p.tok.text
		switch name {
		case "and", "or", "not", "is", "contains", "None", "none", "null":
			return Operand{}, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("unexpected keyword %q", name)}
		}
		if _, ok := FieldByName(name); !ok {
			return Operand{}, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("unknown field %q", name)}
		}
		if err := p.advance(); err != nil {
			return Operand{}, err
		}
		return Operand{Field: name}, nil
	case tokNumber:
		v, _ := strconv.ParseFloat(p.tok.text, 64)
		if err := p.advance(); err != nil {
			return Operand{}, err
		}
		return Operand{Num: &v}, nil
	case tokString:
		s := p.tok.text
		if err := p.advance(); err != nil {
			return Operand{}, err
		}
		return Operand{Str: &s}, nil
	default:
		return Operand{}, &SyntaxError{Pos: p.tok.pos, Msg: "expected a field, number, or string"}
	}
}

func checkCompare(c Compare, leftPos, rightPos int) error {
	if !c.Left.isField() && !c.Right.isField() {
		return &SyntaxError{Pos: leftPos, Msg: "comparison must reference a field"}
	}

	typeOf := func(o Operand) FieldType {
		if o.isField() {
			f, _ := FieldByName(o.Field)
			return f.Type
		}
		if o.Num != nil {
			return FieldTypeNumber
		}
		return FieldTypeString
	}

	lt, rt := typeOf(c.Left), typeOf(c.Right)
	if lt != rt {
		return &SyntaxError{Pos: rightPos, Msg: "type mismatch: cannot compare text and number"}
	}
	if lt == FieldTypeString && c.Op != "==" && c.Op != "!=" {
		return &SyntaxError{Pos: leftPos, Msg: fmt.Sprintf("operator %q is not defined for text fields", c.Op)}
	}
	return nil
}
