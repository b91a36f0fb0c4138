package moltcl

import (
	"fmt"
	"strings"
)

// registerExprCommand installs `expr`, kept in the core (not moltcl/stdlib)
// because its literal-lexing rules (spec §3: `0x`, `0b`, no octal) and its
// need to call back into variable/command substitution tie it directly to
// evaluator internals.
func registerExprCommand[Ctx any](i *Interp[Ctx]) {
	i.RegisterCommand("expr", 1, ArgMax, cmdExpr[Ctx])
}

func cmdExpr[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	parts := make([]string, len(args))
	for k, a := range args {
		parts[k] = a.String()
	}
	src := strings.Join(parts, " ")
	ev := &exprEval[Ctx]{interp: interp, src: src}
	v, err := ev.parseExpr()
	if err != nil {
		return Err(err.Error())
	}
	ev.skipSpace()
	if !ev.atEnd() {
		return Err(fmt.Sprintf("syntax error in expression %q", src))
	}
	return Ok(v)
}

// exprEval is a small recursive descent parser/evaluator over Obj operands,
// grounded on the same character-cursor style as [Parser].
type exprEval[Ctx any] struct {
	interp *Interp[Ctx]
	src    string
	pos    int
}

func (e *exprEval[Ctx]) atEnd() bool { return e.pos >= len(e.src) }

func (e *exprEval[Ctx]) skipSpace() {
	for !e.atEnd() && isInlineSpace(e.src[e.pos]) {
		e.pos++
	}
}

func (e *exprEval[Ctx]) peekOp(ops ...string) string {
	e.skipSpace()
	for _, op := range ops {
		if strings.HasPrefix(e.src[e.pos:], op) {
			return op
		}
	}
	return ""
}

func (e *exprEval[Ctx]) parseExpr() (*Obj, error) { return e.parseOr() }

func (e *exprEval[Ctx]) parseOr() (*Obj, error) {
	left, err := e.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if op := e.peekOp("||"); op != "" {
			e.pos += len(op)
			lb, err := asBool(left)
			if err != nil {
				return nil, err
			}
			right, err := e.parseAnd()
			if err != nil {
				return nil, err
			}
			rb, err := asBool(right)
			if err != nil {
				return nil, err
			}
			left = NewBool(lb || rb)
			continue
		}
		return left, nil
	}
}

func (e *exprEval[Ctx]) parseAnd() (*Obj, error) {
	left, err := e.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		if op := e.peekOp("&&"); op != "" {
			e.pos += len(op)
			lb, err := asBool(left)
			if err != nil {
				return nil, err
			}
			right, err := e.parseEquality()
			if err != nil {
				return nil, err
			}
			rb, err := asBool(right)
			if err != nil {
				return nil, err
			}
			left = NewBool(lb && rb)
			continue
		}
		return left, nil
	}
}

func (e *exprEval[Ctx]) parseEquality() (*Obj, error) {
	left, err := e.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op := e.peekOp("==", "!=")
		if op == "" {
			return left, nil
		}
		e.pos += len(op)
		right, err := e.parseRelational()
		if err != nil {
			return nil, err
		}
		eq := valuesEqual(left, right)
		if op == "!=" {
			eq = !eq
		}
		left = NewBool(eq)
	}
}

func (e *exprEval[Ctx]) parseRelational() (*Obj, error) {
	left, err := e.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := e.peekOp("<=", ">=", "<", ">")
		if op == "" {
			return left, nil
		}
		e.pos += len(op)
		right, err := e.parseAdditive()
		if err != nil {
			return nil, err
		}
		cmp, err := compareValues(left, right)
		if err != nil {
			return nil, err
		}
		var result bool
		switch op {
		case "<":
			result = cmp < 0
		case ">":
			result = cmp > 0
		case "<=":
			result = cmp <= 0
		case ">=":
			result = cmp >= 0
		}
		left = NewBool(result)
	}
}

func (e *exprEval[Ctx]) parseAdditive() (*Obj, error) {
	left, err := e.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op := e.peekOp("+", "-")
		if op == "" {
			return left, nil
		}
		e.pos += len(op)
		right, err := e.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left, err = arith(left, right, op)
		if err != nil {
			return nil, err
		}
	}
}

func (e *exprEval[Ctx]) parseMultiplicative() (*Obj, error) {
	left, err := e.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := e.peekOp("*", "/", "%")
		if op == "" {
			return left, nil
		}
		e.pos += len(op)
		right, err := e.parseUnary()
		if err != nil {
			return nil, err
		}
		left, err = arith(left, right, op)
		if err != nil {
			return nil, err
		}
	}
}

func (e *exprEval[Ctx]) parseUnary() (*Obj, error) {
	e.skipSpace()
	if e.atEnd() {
		return nil, fmt.Errorf("syntax error: unexpected end of expression")
	}
	switch e.src[e.pos] {
	case '!':
		e.pos++
		v, err := e.parseUnary()
		if err != nil {
			return nil, err
		}
		b, err := asBool(v)
		if err != nil {
			return nil, err
		}
		return NewBool(!b), nil
	case '-':
		e.pos++
		v, err := e.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate(v)
	case '+':
		e.pos++
		return e.parseUnary()
	}
	return e.parsePrimary()
}

func (e *exprEval[Ctx]) parsePrimary() (*Obj, error) {
	e.skipSpace()
	if e.atEnd() {
		return nil, fmt.Errorf("syntax error: unexpected end of expression")
	}
	c := e.src[e.pos]
	switch {
	case c == '(':
		e.pos++
		v, err := e.parseExpr()
		if err != nil {
			return nil, err
		}
		e.skipSpace()
		if e.atEnd() || e.src[e.pos] != ')' {
			return nil, fmt.Errorf("missing close paren in expression")
		}
		e.pos++
		return v, nil
	case c == '"':
		return e.parseQuoted()
	case c == '$':
		return e.parseVarRef()
	case c == '[':
		script, newPos, err := scanCommandSub(e.src, e.pos)
		if err != nil {
			return nil, err
		}
		e.pos = newPos
		result := e.interp.evalNested(script)
		if result.Code != CodeOK {
			return nil, result.asError()
		}
		return result.Value, nil
	case isDigit(c):
		return e.parseNumber()
	case isNameByte(c):
		return e.parseBareword()
	default:
		return nil, fmt.Errorf("syntax error in expression at %q", e.src[e.pos:])
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (e *exprEval[Ctx]) parseNumber() (*Obj, error) {
	start := e.pos
	if strings.HasPrefix(e.src[e.pos:], "0x") || strings.HasPrefix(e.src[e.pos:], "0X") ||
		strings.HasPrefix(e.src[e.pos:], "0b") || strings.HasPrefix(e.src[e.pos:], "0B") {
		e.pos += 2
		for !e.atEnd() && isHexDigit(e.src[e.pos]) {
			e.pos++
		}
		lit := e.src[start:e.pos]
		n, ok := parseTclInt(lit)
		if !ok {
			return nil, fmt.Errorf("bad integer literal %q", lit)
		}
		return NewInt(n), nil
	}
	isFloat := false
	for !e.atEnd() {
		c := e.src[e.pos]
		switch {
		case isDigit(c):
			e.pos++
		case c == '.' && !isFloat:
			isFloat = true
			e.pos++
		case (c == 'e' || c == 'E') && !strings.HasPrefix(e.src[start:e.pos], "0x"):
			isFloat = true
			e.pos++
			if !e.atEnd() && (e.src[e.pos] == '+' || e.src[e.pos] == '-') {
				e.pos++
			}
		default:
			goto done
		}
	}
done:
	lit := e.src[start:e.pos]
	if isFloat {
		f, ok := parseTclFloat(lit)
		if !ok {
			return nil, fmt.Errorf("bad number %q", lit)
		}
		return NewFloat(f), nil
	}
	n, ok := parseTclInt(lit)
	if !ok {
		return nil, fmt.Errorf("bad integer literal %q", lit)
	}
	return NewInt(n), nil
}

func (e *exprEval[Ctx]) parseBareword() (*Obj, error) {
	start := e.pos
	for !e.atEnd() && isNameByte(e.src[e.pos]) {
		e.pos++
	}
	word := e.src[start:e.pos]
	if b, ok := parseTclBool(word); ok {
		return NewBool(b), nil
	}
	if f, ok := parseTclFloat(word); ok {
		return NewFloat(f), nil
	}
	return nil, fmt.Errorf("invalid bareword %q in expression", word)
}

func (e *exprEval[Ctx]) parseQuoted() (*Obj, error) {
	e.pos++ // opening quote
	var b strings.Builder
	for !e.atEnd() && e.src[e.pos] != '"' {
		if e.src[e.pos] == '\\' && e.pos+1 < len(e.src) {
			r, width := unescapeAt(e.src[e.pos+1:])
			b.WriteString(r)
			e.pos += 1 + width
			continue
		}
		b.WriteByte(e.src[e.pos])
		e.pos++
	}
	if e.atEnd() {
		return nil, fmt.Errorf("unmatched open quote in expression")
	}
	e.pos++ // closing quote
	return NewString(b.String()), nil
}

func (e *exprEval[Ctx]) parseVarRef() (*Obj, error) {
	start := e.pos
	p := &Parser{src: e.src, pos: e.pos}
	part, ok, err := p.tryParseVar()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("syntax error at %q", e.src[start:])
	}
	e.pos = p.pos
	name := part.Name
	if part.IsArray {
		idx, c := e.interp.substituteParts(part.Index)
		if c != nil {
			return nil, c.asError()
		}
		name = fmt.Sprintf("%s(%s)", part.Name, idx)
	}
	return e.interp.GetVar(name)
}

// arith applies a numeric binary operator, promoting to floating point if
// either operand is not a clean integer.
func arith(l, r *Obj, op string) (*Obj, error) {
	li, lIntOK := tryInt(l)
	ri, rIntOK := tryInt(r)
	if lIntOK && rIntOK {
		switch op {
		case "+":
			return NewInt(li + ri), nil
		case "-":
			return NewInt(li - ri), nil
		case "*":
			return NewInt(li * ri), nil
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("divide by zero")
			}
			return NewInt(floorDivInt(li, ri)), nil
		case "%":
			if ri == 0 {
				return nil, fmt.Errorf("divide by zero")
			}
			return NewInt(floorModInt(li, ri)), nil
		}
	}
	lf, err := asFloat(l)
	if err != nil {
		return nil, err
	}
	rf, err := asFloat(r)
	if err != nil {
		return nil, err
	}
	switch op {
	case "+":
		return NewFloat(lf + rf), nil
	case "-":
		return NewFloat(lf - rf), nil
	case "*":
		return NewFloat(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, fmt.Errorf("divide by zero")
		}
		return NewFloat(lf / rf), nil
	case "%":
		return nil, fmt.Errorf("can't use floating-point value as operand of \"%%\"")
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func tryInt(o *Obj) (int64, bool) {
	n, err := asInt(o)
	if err != nil {
		return 0, false
	}
	return n, true
}

// floorDivInt and floorModInt implement TCL's floor-toward-negative-infinity
// integer division, unlike Go's truncate-toward-zero `/`.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func negate(o *Obj) (*Obj, error) {
	if n, ok := tryInt(o); ok {
		return NewInt(-n), nil
	}
	f, err := asFloat(o)
	if err != nil {
		return nil, err
	}
	return NewFloat(-f), nil
}

// compareValues orders l and r numerically if both parse as numbers,
// otherwise lexically by string form (TCL expr's usual fallback).
func compareValues(l, r *Obj) (int, error) {
	lf, lok := tryFloat(l)
	rf, rok := tryFloat(r)
	if lok && rok {
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return strings.Compare(l.String(), r.String()), nil
}

func tryFloat(o *Obj) (float64, bool) {
	f, err := asFloat(o)
	if err != nil {
		return 0, false
	}
	return f, true
}

// valuesEqual reports == per compareValues' numeric-or-lexical rule.
func valuesEqual(l, r *Obj) bool {
	c, _ := compareValues(l, r)
	return c == 0
}
