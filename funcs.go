package calc

import (
	"math"
	"strconv"
)

// Func describes a built-in function. Functions are pure: the result depends
// only on the arguments, except for result, which reads the context's history.
type Func struct {
	// Name is the name the function is called by.
	Name string
	// Arity is the number of arguments the function requires.
	Arity int

	kind funcKind
}

type funcKind int8

const (
	fnNone funcKind = iota

	fnSin
	fnCos
	fnTan
	fnAbs
	fnSqrt
	fnRadians
	fnDegrees
	fnLn
	fnLog2
	fnLog10
	fnExp
	fnSign
	fnResult

	fnMin
	fnMax
	fnPow
)

var globalfuncs = map[string]Func{
	"sin":     {"sin", 1, fnSin},
	"cos":     {"cos", 1, fnCos},
	"tan":     {"tan", 1, fnTan},
	"abs":     {"abs", 1, fnAbs},
	"sqrt":    {"sqrt", 1, fnSqrt},
	"radians": {"radians", 1, fnRadians},
	"degrees": {"degrees", 1, fnDegrees},
	"ln":      {"ln", 1, fnLn},
	"log2":    {"log2", 1, fnLog2},
	"log10":   {"log10", 1, fnLog10},
	"exp":     {"exp", 1, fnExp},
	"sign":    {"sign", 1, fnSign},
	"result":  {"result", 1, fnResult},

	"min": {"min", 2, fnMin},
	"max": {"max", 2, fnMax},
	"pow": {"pow", 2, fnPow},
}

var globalconsts = map[string]float64{
	"pi":    math.Pi,
	"tau":   2 * math.Pi,
	"e":     math.E,
	"true":  1,
	"false": 0,
	"inf":   math.Inf(1),
}

// call applies the function to its arguments. len(args) must equal f.Arity.
func (f Func) call(ctx *Context, args []float64) (float64, error) {
	var r float64
	switch f.kind {
	case fnSin:
		r = math.Sin(args[0])
	case fnCos:
		r = math.Cos(args[0])
	case fnTan:
		r = math.Tan(args[0])
	case fnAbs:
		r = math.Abs(args[0])
	case fnSqrt:
		r = math.Sqrt(args[0])
	case fnRadians:
		r = args[0] * math.Pi / 180
	case fnDegrees:
		r = args[0] * 180 / math.Pi
	case fnLn:
		r = math.Log(args[0])
	case fnLog2:
		r = math.Log2(args[0])
	case fnLog10:
		r = math.Log10(args[0])
	case fnExp:
		r = math.Exp(args[0])
	case fnSign:
		r = sign(args[0])
	case fnResult:
		k := args[0]
		if k != math.Trunc(k) || k < 1 || k > float64(len(ctx.history)) {
			return 0, &DomainError{X: k, Arg: 1, Func: f.Name}
		}
		return ctx.history[int(k)-1], nil
	case fnMin:
		r = math.Min(args[0], args[1])
	case fnMax:
		r = math.Max(args[0], args[1])
	case fnPow:
		r, err := power(args[0], args[1])
		if err != nil {
			err.(*DomainError).Func = f.Name
		}
		return r, err
	default:
		panic("calc: invalid function kind " + strconv.Itoa(int(f.kind)) + " for " + f.Name)
	}
	if math.IsNaN(r) {
		// A NaN result from non-NaN arguments means some argument was outside
		// the domain. Blame the first.
		for _, x := range args {
			if math.IsNaN(x) {
				return r, nil
			}
		}
		return 0, &DomainError{X: args[0], Arg: 1, Func: f.Name}
	}
	return r, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		// 0, -0, and NaN are their own signs.
		return x
	}
}

// power computes x^y, failing with a DomainError when the result is not real.
func power(x, y float64) (float64, error) {
	r := math.Pow(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return 0, &DomainError{X: x, Arg: 1, Func: "^"}
	}
	return r, nil
}

// maxFactorial is the largest n for which n! is finite as a float64.
const maxFactorial = 170

// factorials holds n! for n in [0, maxFactorial], built up by repeated
// multiplication.
var factorials = func() (t [maxFactorial + 1]float64) {
	t[0] = 1
	for i := 1; i < len(t); i++ {
		t[i] = t[i-1] * float64(i)
	}
	return t
}()

// factorial computes x! for integer x in [0, maxFactorial]. The second result
// is false if x is outside that domain.
func factorial(x float64) (float64, bool) {
	if !(x >= 0 && x <= maxFactorial) || x != math.Trunc(x) {
		return 0, false
	}
	return factorials[int(x)], true
}

// Funcs returns descriptors for all built-in functions, sorted by name.
func Funcs() []Func {
	names := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		names = append(names, k)
	}
	sortstrs(names)
	r := make([]Func, len(names))
	for i, k := range names {
		r[i] = globalfuncs[k]
	}
	return r
}

// Consts returns the names of all built-in constants, sorted.
func Consts() []string {
	names := make([]string, 0, len(globalconsts))
	for k := range globalconsts {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}
