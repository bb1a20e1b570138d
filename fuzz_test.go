//go:build go1.18
// +build go1.18

package calc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("1 + 2 * 3")
	f.Add("x = max(1, 2)!")
	f.Add("not (a and b) or c nor d")
	f.Add("((1,)")
	f.Add("2 ** -.5e3")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := calc.Parse(s)
		if err != nil {
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Errorf("%q: error %#v is not an InputError", s, err)
			}
			if !errors.Is(err, calc.ErrLex) && !errors.Is(err, calc.ErrParse) {
				t.Errorf("%q: error %v has no category", s, err)
			}
			return
		}
		// The string form must parse to an expression with the same form.
		g, err := calc.Parse(e.String(), calc.MaxDepth(0))
		if err != nil {
			t.Fatalf("%q: string form %q doesn't parse: %v", s, e.String(), err)
		}
		if e.String() != g.String() {
			t.Errorf("%q: string form %q reparses as %q", s, e.String(), g.String())
		}
	})
}

func FuzzRun(f *testing.F) {
	f.Add("x")
	f.Add("y = x + 1")
	f.Add("result(1) / 0")
	f.Add("171! + sqrt(-x)")
	f.Fuzz(func(t *testing.T, s string) {
		ctx := calc.NewContext(calc.SetVar("x", 2), calc.KeepHistory())
		_, err := ctx.Run(s)
		if err == nil {
			return
		}
		if !errors.Is(err, calc.ErrLex) && !errors.Is(err, calc.ErrParse) && !errors.Is(err, calc.ErrEval) {
			t.Errorf("%q: error %v has no category", s, err)
		}
		if v, _ := ctx.Lookup("x"); v != 2 {
			t.Errorf("%q: failed run changed x to %v", s, v)
		}
		if len(ctx.History()) != 0 {
			t.Errorf("%q: failed run recorded history", s)
		}
	})
}
