package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zephyrtronium/calc"
)

// session runs statements against one context and prints the results.
type session struct {
	ctx    *calc.Context
	conf   *config
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
	// color enables colored error output.
	color bool
	// numbered prefixes results with their history index when history is
	// kept.
	numbered bool
}

func newSession(conf *config, log zerolog.Logger, stdout, stderr io.Writer) *session {
	opts := []calc.ContextOption{calc.WithLogger(log)}
	if conf.History {
		opts = append(opts, calc.KeepHistory())
	}
	return &session{
		ctx:    calc.NewContext(opts...),
		conf:   conf,
		log:    log,
		stdout: stdout,
		stderr: stderr,
	}
}

// run runs one statement and prints its result or error. The result is
// whether the statement succeeded.
func (s *session) run(line string) bool {
	st, err := calc.ParseStmt(line, calc.MaxDepth(s.conf.MaxDepth))
	if err != nil {
		s.report(line, err)
		return false
	}
	if s.conf.Echo {
		fmt.Fprintf(s.stdout, "%v : ", st)
	}
	r, err := s.ctx.Exec(st)
	if err != nil {
		if s.conf.Echo {
			fmt.Fprintln(s.stdout)
		}
		s.report(line, err)
		return false
	}
	if s.numbered && s.conf.History {
		fmt.Fprintf(s.stdout, "[%d] = %s\n", len(s.ctx.History()), s.format(r))
		return true
	}
	fmt.Fprintln(s.stdout, s.format(r))
	return true
}

// give assigns a variable from a name=value definition, where the value is
// itself a statement to run.
func (s *session) give(def string) error {
	name, value, err := splitGiven(def)
	if err != nil {
		return err
	}
	st, err := calc.ParseStmt(value, calc.MaxDepth(s.conf.MaxDepth))
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	r, err := s.ctx.Clone().Exec(st)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	if err := s.ctx.Set(name, r); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	s.log.Debug().Str("name", name).Float64("value", r).Msg("given")
	return nil
}

// runFile runs each non-blank line of a file that does not start with #.
// The name - means standard input.
func (s *session) runFile(name string) error {
	var f io.Reader = os.Stdin
	if name != "-" {
		in, err := os.Open(name)
		if err != nil {
			return err
		}
		defer in.Close()
		f = in
	}
	return s.runLines(f)
}

func (s *session) runLines(r io.Reader) error {
	ok := true
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ok = s.run(line) && ok
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	return nil
}

// format formats a result for display.
func (s *session) format(r float64) string {
	if s.conf.Places >= 0 && !math.IsInf(r, 0) && !math.IsNaN(r) {
		return decimal.NewFromFloat(r).StringFixed(int32(s.conf.Places))
	}
	return fmt.Sprintf(s.conf.Fmt, r)
}

// report prints an error. Errors with positions also print the line with a
// caret under the offending token.
func (s *session) report(line string, err error) {
	label := "error:"
	if s.color {
		label = prtxt.FgRed.Sprint(label)
	}
	fmt.Fprintln(s.stderr, label, err)
	var ie calc.InputError
	if errors.As(err, &ie) && ie.Pos() > 0 {
		fmt.Fprintf(s.stderr, "  %s\n  %s^\n", line, strings.Repeat(" ", ie.Pos()-1))
	}
	s.log.Debug().Str("line", line).Err(err).Msg("statement failed")
}

// vars prints a table of the variables in the context.
func (s *session) vars(w io.Writer) {
	names := s.ctx.Vars()
	if len(names) == 0 {
		fmt.Fprintln(w, "no variables")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"name", "value"})
	for _, name := range names {
		v, _ := s.ctx.Lookup(name)
		t.AppendRow(table.Row{name, s.format(v)})
	}
	t.Render()
}

// funcs prints tables of the built-in functions and constants.
func (s *session) funcs(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"function", "arguments"})
	for _, f := range calc.Funcs() {
		t.AppendRow(table.Row{f.Name, f.Arity})
	}
	t.Render()

	t = table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"constant", "value"})
	for _, c := range calc.Consts() {
		v, _ := s.ctx.Lookup(c)
		t.AppendRow(table.Row{c, s.format(v)})
	}
	t.Render()
}
