package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type lexToken struct {
	text string
	kind tokenKind
	// num is the value of a tokenNum.
	num float64
	pos int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a numeric literal.
	tokenNum
	// tokenIdent is a constant, variable, or function name.
	tokenIdent
	// tokenOp is an operator, including the word operators like and.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is the function argument separator ,.
	tokenSep
)

var tokenKindNames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenSep:   "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators lists every operator spelled with symbols.
var Operators = []string{
	"+", "-", "*", "/", "%", "^", "**", "!",
	"==", "!=", "<", "<=", ">", ">=", "&&", "||", "=",
}

// Keywords lists the operators spelled as words. They cannot be used as
// names.
var Keywords = []string{"and", "or", "nand", "nor", "not", "mod"}

var (
	machineOnce sync.Once
	machine     *lexmachine.Lexer
)

// lexMachine returns the compiled tokenizer DFA shared by all lexers.
func lexMachine() *lexmachine.Lexer {
	machineOnce.Do(func() {
		m := lexmachine.NewLexer()
		m.Add([]byte("( |\t|\n|\r)+"), skip)
		m.Add([]byte(`[0-9]+(\.[0-9]*)?((e|E)(\+|\-)?[0-9]+)?`), emit(tokenNum))
		m.Add([]byte(`\.[0-9]+((e|E)(\+|\-)?[0-9]+)?`), emit(tokenNum))
		// Malformed numbers are always longer than the longest valid prefix,
		// so the longest match picks them instead of splitting the literal.
		m.Add([]byte(`[0-9]*\.[0-9]*\.(\.|[0-9])*`), badNumber)
		m.Add([]byte(`([0-9]+(\.[0-9]*)?|\.[0-9]+)(e|E)(\+|\-)?`), badNumber)
		m.Add([]byte(`([0-9]+(\.[0-9]*)?|\.[0-9]+)(e|E)(\+|\-)?[0-9]+(\.|(e|E)(\+|\-)?[0-9])(\.|[0-9]|(e|E)(\+|\-)?[0-9])*`), badNumber)
		for _, op := range Operators {
			m.Add(literal(op), emit(tokenOp))
		}
		// Keywords go before identifiers so that they win ties.
		for _, kw := range Keywords {
			m.Add(literal(kw), emit(tokenOp))
		}
		m.Add([]byte(`[a-zA-Z][a-zA-Z0-9_]*`), emit(tokenIdent))
		m.Add([]byte(`\(`), emit(tokenOpen))
		m.Add([]byte(`\)`), emit(tokenClose))
		m.Add([]byte(`,`), emit(tokenSep))
		if err := m.Compile(); err != nil {
			panic("calc: compiling lexer: " + err.Error())
		}
		machine = m
	})
	return machine
}

// literal escapes s for use as a lexmachine pattern.
func literal(s string) []byte {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.*+?|()[]^`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return []byte(b.String())
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(kind tokenKind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

func badNumber(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return nil, &LexError{Text: string(m.Bytes), Kind: "number", Col: column(s.Text, m.TC)}
}

// column converts a byte offset into a 1-based rune column by counting from
// the start of text.
func column(text []byte, tc int) int {
	if tc > len(text) {
		tc = len(text)
	}
	return utf8.RuneCount(text[:tc]) + 1
}

// lexer produces tokens from a single input. Tokens are scanned lazily. To
// scan the same input again, create a new lexer.
type lexer struct {
	scan *lexmachine.Scanner
	text []byte
	p    lexToken
	eof  bool
	// last is the position of the most recently scanned token.
	last int
	// off and col are a byte offset into text and its rune column, so that
	// each token only counts the runes since the previous one.
	off, col int
}

func lex(src string) *lexer {
	text := []byte(src)
	scan, err := lexMachine().Scanner(text)
	if err != nil {
		panic("calc: creating scanner: " + err.Error())
	}
	return &lexer{scan: scan, text: text, col: 1}
}

// column returns the rune column of byte offset tc, which must not precede
// any offset previously passed to column.
func (l *lexer) column(tc int) int {
	if tc > len(l.text) {
		tc = len(l.text)
	}
	if tc < l.off {
		return column(l.text, tc)
	}
	l.col += utf8.RuneCount(l.text[l.off:tc])
	l.off = tc
	return l.col
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// next scans the next token from the input. The first time the input is
// exhausted, the result is an EOF token with a nil error. After that, or after
// any error, the result is an empty token with io.EOF unless an EOF token is
// pushed.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		l.last = tok.pos
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	v, err, eos := l.scan.Next()
	if eos {
		l.eof = true
		l.last = l.column(len(l.text))
		return lexToken{kind: tokenEOF, pos: l.last}, nil
	}
	if err != nil {
		l.eof = true
		var ui *machines.UnconsumedInput
		if errors.As(err, &ui) {
			r, _ := utf8.DecodeRune(l.text[ui.StartTC:])
			pos := l.column(ui.StartTC)
			return lexToken{pos: pos}, &LexError{Text: string(r), Col: pos}
		}
		var le *LexError
		if errors.As(err, &le) {
			return lexToken{pos: le.Col}, le
		}
		return lexToken{}, err
	}
	t := v.(*lexmachine.Token)
	tok := lexToken{
		text: t.Value.(string),
		kind: tokenKind(t.Type),
		pos:  l.column(t.TC),
	}
	if tok.kind == tokenNum {
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// The patterns only admit literals ParseFloat understands.
			panic("calc: invalid number " + strconv.Quote(tok.text) + ": " + err.Error())
		}
		tok.num = f
	}
	l.last = tok.pos
	return tok, nil
}

// LexError indicates an invalid token. It implements InputError and unwraps
// to ErrLex.
type LexError struct {
	// Text is the malformed token, or the unknown character if no token
	// could start there.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" for
	// malformed numeric literals and the empty string for unknown characters.
	Kind string
	// Col is the rune position of the start of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "unknown character "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrLex
}
