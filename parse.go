package calc

import (
	"strings"
)

// Stmt = name '=' Expr | Expr
// Expr = num | name | Call | Unary | Fact | Binary | '(' Expr ')'
// Call = name '(' [ Expr { ',' Expr } ] ')'
// Unary = ('-' | '+' | 'not') Expr
// Fact = Expr '!'
// Binary = Expr binop Expr

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// Stmt is a parsed line of input: an expression, optionally assigned to a
// variable.
type Stmt struct {
	// Target is the name of the variable to assign, or the empty string if
	// the statement is a bare expression.
	Target string
	// Col is the position of Target.
	Col int
	// Expr is the expression to evaluate.
	Expr *Expr
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := newparsectx(opts)
	return parse(lex(src), &p)
}

// ParseStmt parses a statement. If the input begins with a name followed by a
// single =, the rest of the input is parsed as the expression to assign to
// that name. Otherwise, the whole input is parsed as an expression.
func ParseStmt(src string, opts ...ParseOption) (*Stmt, error) {
	p := newparsectx(opts)
	scan := lex(src)
	name, err := scan.next()
	if err != nil {
		return nil, err
	}
	if name.kind == tokenIdent {
		eq, err := scan.next()
		if err != nil {
			return nil, err
		}
		if eq.kind == tokenOp && eq.text == "=" {
			e, err := parse(scan, &p)
			if err != nil {
				return nil, err
			}
			return &Stmt{Target: name.text, Col: name.pos, Expr: e}, nil
		}
	}
	// Not an assignment. Start over from the beginning.
	e, err := parse(lex(src), &p)
	if err != nil {
		return nil, err
	}
	return &Stmt{Expr: e}, nil
}

func parse(scan *lexer, p *parsectx) (*Expr, error) {
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses a term whose binary operators all bind more tightly than
// until. If there is no error, then parseterm pushes the last token it scans,
// including EOF.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	if err := p.enter(scan); err != nil {
		return nil, err
	}
	defer p.leave()
	n, err := parselhs(scan, p)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenNum, tokenIdent, tokenOpen:
			// Two operands in a row.
			return nil, &TokenError{Col: tok.pos, Token: tok.text}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses a single operand: a number, name, call, or parenthesized
// expression, preceded by any prefix operators and followed by any postfix
// operators.
func parselhs(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text, num: tok.num, pos: tok.pos}
	case tokenIdent:
		open, err := scan.next()
		if err != nil {
			return nil, err
		}
		if open.kind != tokenOpen {
			scan.push(open)
			p.names[tok.text] = true
			n = &node{kind: nodeName, name: tok.text, pos: tok.pos}
			break
		}
		args, err := parsearglist(scan, p)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCall, name: tok.text, pos: tok.pos, right: args}
	case tokenOp:
		// Prefix operators bind more tightly than any binary operator, so the
		// operand is exactly one more lhs.
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if err := p.enter(scan); err != nil {
			return nil, err
		}
		defer p.leave()
		rhs, err := parselhs(scan, p)
		if err != nil {
			return nil, err
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		n = rhs
	case tokenClose:
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("calc: unknown token: " + tok.String())
	}
	return parsepostfix(scan, n)
}

// parsepostfix applies any postfix operators following an operand. Postfix
// operators stack to the left: x!! is (x!)!.
func parsepostfix(scan *lexer, n *node) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOp {
			scan.push(tok)
			return n, nil
		}
		prec := postop(tok.text)
		if prec.op == nodeNone {
			scan.push(tok)
			return n, nil
		}
		n = &node{kind: prec.op, pos: tok.pos, left: n}
	}
}

// parsearglist parses a parenthesized list of zero or more args. The open
// parenthesis has already been scanned.
func parsearglist(scan *lexer, p *parsectx) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		// Niladic call.
		return nil, nil
	}
	scan.push(tok)
	var n node
	l := &n
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		l.right = &node{kind: nodeArg, pos: rhs.pos, left: rhs}
		l = l.right
		end := scan.must()
		switch end.kind {
		case tokenClose:
			return n.right, nil
		case tokenSep:
			// Another arg follows.
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: "(", Right: ""}
		default:
			panic("calc: parseterm ended on non-end token " + end.String())
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is whether the expression is
// inside parentheses.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: "(", Right: ""}
	case tokenClose:
		// A close bracket at the end of input has nothing to match.
		return &BracketError{Col: tok.pos, Left: "", Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a fully parenthesized representation of the parsed
// expression.
func (e *Expr) String() string {
	return e.n.String()
}

func (s *Stmt) String() string {
	if s.Target == "" {
		return s.Expr.String()
	}
	var b strings.Builder
	b.WriteString(s.Target)
	b.WriteString(" = ")
	b.WriteString(s.Expr.String())
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "or", "||":
		return operator{1, false, nodeOr}
	case "nor":
		return operator{1, false, nodeNor}
	case "and", "&&":
		return operator{2, false, nodeAnd}
	case "nand":
		return operator{2, false, nodeNand}
	case "==":
		return operator{3, false, nodeEq}
	case "!=":
		return operator{3, false, nodeNe}
	case "<":
		return operator{4, false, nodeLt}
	case "<=":
		return operator{4, false, nodeLe}
	case ">":
		return operator{4, false, nodeGt}
	case ">=":
		return operator{4, false, nodeGe}
	case "+":
		return operator{5, false, nodeAdd}
	case "-":
		return operator{5, false, nodeSub}
	case "*":
		return operator{6, false, nodeMul}
	case "/":
		return operator{6, false, nodeDiv}
	case "%", "mod":
		return operator{6, false, nodeMod}
	case "^", "**":
		return operator{7, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a prefix operator for a token string. If there is no such
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{8, true, nodeNop}
	case "-":
		return operator{8, true, nodeNeg}
	case "not":
		return operator{8, true, nodeNot}
	default:
		return operator{}
	}
}

// postop gets a postfix operator for a token string. If there is no such
// operator, then the result has an op of nodeNone.
func postop(text string) operator {
	switch text {
	case "!":
		return operator{9, false, nodeFact}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
