package calc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want float64
	}{
		{"add-mul", "2 + 3 * 4", 14},
		{"paren", "(2 + 3) * 4", 20},
		{"pow-right", "2 ^ 3 ^ 2", 512},
		{"pow-alt", "2 ** 3 ** 2", 512},
		{"pow-neg-exp", "2**-2", 0.25},
		{"neg-pow", "-2^2", 4},
		{"sub-left", "10 - 4 - 3", 3},
		{"div-left", "64 / 4 / 2", 8},
		{"mod", "7 % 3", 1},
		{"mod-word", "7 mod 3", 1},
		{"mod-neg", "-7 % 3", -1},
		{"mod-frac", "5.5 % 2", 1.5},
		{"unary", "+-+1", -1},
		{"negneg", "--1", 1},
		{"fact", "5!", 120},
		{"fact0", "0!", 1},
		{"factfact", "3!!", 720},
		{"negfact", "-3!", -6},
		{"powfact", "2^3!", 64},
		{"factpow", "3!^2", 36},
		{"fact170", "170! > 1e306", 1},
		{"lit-exp", "1e3 + .5", 1000.5},
		{"lit-dot", "1. + 1", 2},

		{"and", "1 and 0", 0},
		{"and-nonzero", "-2 and 0.5", 1},
		{"nand", "1 nand 0", 1},
		{"nand11", "1 nand 1", 0},
		{"or", "0 or 0", 0},
		{"or-alt", "0 || 3", 1},
		{"nor", "0 nor 0", 1},
		{"nor10", "1 nor 0", 0},
		{"and-alt", "2 && 2", 1},
		{"not0", "not 0", 1},
		{"not5", "not 5", 0},
		{"not-eq", "not 1 == 0", 1},
		{"chain", "3 > 2 and 1 == 1", 1},
		{"rel", "8.0 > 7.9999 and 8 >= 8.0 and 8 < 9 and 1 <= 1", 1},
		{"ne", "2 != 2", 0},
		{"eq-chain", "1 == 1 == 1", 1},
		{"rel-sum", "(1 < 2) + (2 < 1) + (3 >= 3)", 2},
		{"bool", "not false and true or false and true nand false or true and (true or false and (false nor (true and false)))", 1},

		{"pi", "pi", math.Pi},
		{"tau", "tau / 2", math.Pi},
		{"e", "ln(e)", 1},
		{"true", "true + true", 2},
		{"inf", "inf > 1e308", 1},
		{"max", "max(1, 2)", 2},
		{"min", "min(1, 2)", 1},
		{"abs", "abs(-3)", 3},
		{"sqrt", "sqrt(16)", 4},
		{"sin", "sin(0)", 0},
		{"cos", "cos(0)", 1},
		{"cos-pi", "cos(pi)", -1},
		{"tan", "tan(pi / 4)", 1},
		{"log2", "log2(8)", 3},
		{"log10", "log10(1000)", 3},
		{"exp", "exp(0)", 1},
		{"degrees", "degrees(pi)", 180},
		{"radians", "radians(180)", math.Pi},
		{"sign", "sign(-5) + sign(0) + sign(0.1)", 0},
		{"pow", "pow(2, 10)", 1024},
		{"nested-calls", "max(min(3, 4), abs(-2))", 3},
		{"call-fact", "abs(-3)!", 6},

		{
			"mixed",
			"(abs(cos(((((--(abs((((1+1+(1+1)+1+1+(4*1))+1+(10-11))/10 * 10) % 9 - 10)^2-80+9))*10/10+(2*2 + 6)-5-2-(2+1))*2.00000000-5.6-4.400000000000000000000)-9)*pi))*10.0*sign(max(12.44343234, 11.84934)))*(1+2+3+4)+3!!-720+2**-2-0.25",
			100,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			require.NoError(t, err, "evaluating %q", c.src)
			assert.InDelta(t, c.want, r, 1e-9, "evaluating %q", c.src)
		})
	}
}

func TestEvalVars(t *testing.T) {
	ctx := calc.NewContext(calc.SetVar("x", 3), calc.SetVars(map[string]float64{"y": 4, "z": -1}))
	cases := []struct {
		src  string
		want float64
	}{
		{"x", 3},
		{"x * y", 12},
		{"sqrt(x^2 + y^2)", 5},
		{"-z", 1},
	}
	for _, c := range cases {
		r, err := ctx.Run(c.src)
		require.NoError(t, err, "evaluating %q", c.src)
		assert.Equal(t, c.want, r, "evaluating %q", c.src)
	}
	_, err := ctx.Run("z!")
	var de *calc.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, -1.0, de.X)
	assert.Equal(t, 2, de.Pos())
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
		pos  int
	}{
		{"undefined", "y + 1", new(*calc.NameError), 1},
		{"div-zero", "1 / 0", new(*calc.DivisionError), 3},
		{"mod-zero", "5 % 0", new(*calc.DivisionError), 3},
		{"mod-word-zero", "5 mod (1 - 1)", new(*calc.DivisionError), 3},
		{"neg-fact", "(-1)!", new(*calc.DomainError), 5},
		{"frac-fact", "2.5!", new(*calc.DomainError), 4},
		{"big-fact", "171!", new(*calc.DomainError), 4},
		{"sqrt-neg", "sqrt(-1)", new(*calc.DomainError), 1},
		{"ln-neg", "1 + ln(-2)", new(*calc.DomainError), 5},
		{"pow-frac", "(-8)^(1/3)", new(*calc.DomainError), 5},
		{"pow-func-frac", "pow(-8, 0.5)", new(*calc.DomainError), 1},
		{"unknown-func", "frob(1)", new(*calc.FuncError), 1},
		{"arity-few", "max(1)", new(*calc.CallError), 1},
		{"arity-many", "sin(1, 2)", new(*calc.CallError), 1},
		{"arity-none", "abs()", new(*calc.CallError), 1},
		{"result-no-history", "result(1)", new(*calc.DomainError), 1},
		{"inner", "max(1, 2 / 0)", new(*calc.DivisionError), 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalString(c.src)
			require.Error(t, err, "%q evaluated to %v", c.src, r)
			require.ErrorAs(t, err, c.err)
			assert.ErrorIs(t, err, calc.ErrEval)
			assert.False(t, errors.Is(err, calc.ErrParse))
			var ie calc.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, c.pos, ie.Pos(), "%q: %v", c.src, err)
		})
	}
}

func TestEvalShortCircuitsArgs(t *testing.T) {
	// The first failing argument is the one reported.
	_, err := calc.EvalString("max(1 / 0, y)")
	var de *calc.DivisionError
	require.ErrorAs(t, err, &de)
	_, err = calc.EvalString("max(y, 1 / 0)")
	var ne *calc.NameError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "y", ne.Name)
}

func TestCallError(t *testing.T) {
	_, err := calc.EvalString("max(1)")
	var ce *calc.CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "max", ce.Func)
	assert.Equal(t, 2, ce.Want)
	assert.Equal(t, 1, ce.Got)
}

func TestEvalIdempotent(t *testing.T) {
	ctx := calc.NewContext(calc.SetVar("x", 7))
	e, err := calc.Parse("x^2 - 3 * x + max(x, 10)! / 10!")
	require.NoError(t, err)
	a, err := ctx.Eval(e)
	require.NoError(t, err)
	b, err := ctx.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"x"}, ctx.Vars())
	assert.Empty(t, ctx.History())

	// Failed evaluations leave nothing behind either.
	f, err := calc.Parse("x / (x - 7)")
	require.NoError(t, err)
	_, err = ctx.Eval(f)
	require.Error(t, err)
	c, err := ctx.Eval(e)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestEvalDeep(t *testing.T) {
	const n = 100000
	r, err := calc.EvalString(strings.Repeat("1+", n) + "1")
	require.NoError(t, err)
	assert.Equal(t, float64(n+1), r)

	ctx := calc.NewContext()
	r, err = ctx.Run(strings.Repeat("-", n)+"1", calc.MaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, r)

	r, err = ctx.Run(strings.Repeat("(", n)+"2"+strings.Repeat(")", n)+"!", calc.MaxDepth(0))
	require.NoError(t, err)
	assert.Equal(t, 2.0, r)
}

func TestContext(t *testing.T) {
	ctx := calc.NewContext(calc.SetVar("a", 1))
	require.NoError(t, ctx.Set("b", 2))

	var re *calc.ReservedNameError
	require.ErrorAs(t, ctx.Set("pi", 3), &re)
	assert.Equal(t, "constant", re.Kind)
	require.ErrorAs(t, ctx.Set("sqrt", 3), &re)
	assert.Equal(t, "function", re.Kind)

	v, ok := ctx.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, ok = ctx.Lookup("e")
	assert.True(t, ok)
	assert.Equal(t, math.E, v)
	_, ok = ctx.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, ctx.Vars())

	cl := ctx.Clone(calc.SetVar("c", 3))
	require.NoError(t, cl.Set("a", 10))
	v, _ = ctx.Lookup("a")
	assert.Equal(t, 1.0, v, "clone modified original")
	_, ok = ctx.Lookup("c")
	assert.False(t, ok, "clone option applied to original")
	assert.Equal(t, []string{"a", "b", "c"}, cl.Vars())

	assert.Panics(t, func() { calc.NewContext(calc.SetVar("tau", 1)) })
	assert.Panics(t, func() { calc.NewContext(calc.SetVars(map[string]float64{"x": 1, "max": 2})) })
}

func TestFuncsConsts(t *testing.T) {
	fns := calc.Funcs()
	require.NotEmpty(t, fns)
	arity := make(map[string]int, len(fns))
	for i, f := range fns {
		if i > 0 {
			assert.Less(t, fns[i-1].Name, f.Name, "functions not sorted")
		}
		arity[f.Name] = f.Arity
	}
	for _, name := range []string{"sin", "cos", "abs", "sqrt"} {
		assert.Equal(t, 1, arity[name], name)
	}
	for _, name := range []string{"min", "max", "pow"} {
		assert.Equal(t, 2, arity[name], name)
	}
	assert.Equal(t, []string{"e", "false", "inf", "pi", "tau", "true"}, calc.Consts())
}
