package calc

import (
	"strconv"
)

// NameError is an error from a lookup for a name that is neither a constant
// nor a variable in the evaluation context.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

func (err *NameError) Unwrap() error {
	return ErrEval
}

// FuncError is an error from a call to a function that does not exist.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the name that was called.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function: "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

func (err *FuncError) Unwrap() error {
	return ErrEval
}

// CallError is an error indicating a function call with the wrong number of
// arguments.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the number of arguments the function requires.
	Want int
	// Got is the number of arguments in the call.
	Got int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Got)+" arguments (want "+strconv.Itoa(err.Want)+")")
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) Unwrap() error {
	return ErrEval
}

// DivisionError is an error from division or modulus by zero.
type DivisionError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator, / or %.
	Op string
}

func (err *DivisionError) Error() string {
	if err.Op == "%" {
		return errpos(err.Col, "modulus by zero")
	}
	return errpos(err.Col, "division by zero")
}

func (err *DivisionError) Pos() int {
	return err.Col
}

func (err *DivisionError) Unwrap() error {
	return ErrEval
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain.
type DomainError struct {
	// Col is the position of the function name or operator.
	Col int
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, or 0 for operators.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}

func (err *DomainError) Unwrap() error {
	return ErrEval
}

// ReservedNameError is an error from an attempt to assign to the name of a
// constant or function.
type ReservedNameError struct {
	// Col is the position of the name, or 0 if the name did not come from
	// parsed input.
	Col int
	// Name is the reserved name.
	Name string
	// Kind is "constant" or "function".
	Kind string
}

func (err *ReservedNameError) Error() string {
	return errpos(err.Col, "cannot assign to "+err.Kind+" "+strconv.Quote(err.Name))
}

func (err *ReservedNameError) Pos() int {
	return err.Col
}

func (err *ReservedNameError) Unwrap() error {
	return ErrEval
}

var (
	_ InputError = (*NameError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*DivisionError)(nil)
	_ InputError = (*DomainError)(nil)
	_ InputError = (*ReservedNameError)(nil)
)
