package calc

import (
	"math"
	"strconv"

	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/rs/zerolog"
)

// Context is the symbol table for evaluating expressions: built-in constants
// and functions, which are read-only, and user variables, which are created
// and overwritten by assignments. The zero Context has no constants or
// functions but accepts assignments. It is not safe to use a Context
// concurrently.
type Context struct {
	stack   []float64
	consts  map[string]float64
	funcs   map[string]Func
	vars    map[string]float64
	history []float64
	keep    bool
	log     zerolog.Logger
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
	histopt struct{}
	logopt  struct {
		log zerolog.Logger
	}
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (histopt) ctxOption() {}
func (logopt) ctxOption()  {}

// SetVar sets the value of a variable in the context. Panics if name is the
// name of a constant or function.
func SetVar(name string, val float64) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context. Panics
// if any name is the name of a constant or function.
func SetVars(vars map[string]float64) ContextOption {
	return varsopt(vars)
}

// KeepHistory makes Exec and Run record each successful result so that the
// result function can recall it.
func KeepHistory() ContextOption {
	return histopt{}
}

// WithLogger sets the logger that receives debug messages about assignments.
// The default discards everything.
func WithLogger(log zerolog.Logger) ContextOption {
	return logopt{log}
}

// NewContext creates a new evaluation context seeded with the built-in
// constants and functions.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		consts: globalconsts,
		funcs:  globalfuncs,
		log:    zerolog.Nop(),
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Assignments
// made in either context afterward do not affect the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		consts:  ctx.consts,
		funcs:   ctx.funcs,
		vars:    make(map[string]float64, len(ctx.vars)),
		history: append(([]float64)(nil), ctx.history...),
		keep:    ctx.keep,
		log:     ctx.log,
	}
	for name, val := range ctx.vars {
		n.vars[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.mustSet(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.mustSet(k, v)
			}
		case histopt:
			n.keep = true
		case logopt:
			n.log = opt.log
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

func (ctx *Context) mustSet(name string, val float64) {
	if err := ctx.Set(name, val); err != nil {
		panic("calc: " + err.Error())
	}
}

// Set sets the value of a variable. The name may not be that of a constant or
// function.
func (ctx *Context) Set(name string, value float64) error {
	if err := ctx.checkName(name, 0); err != nil {
		return err
	}
	ctx.setVar(name, value)
	return nil
}

// setVar stores a variable without checking the name. The zero Context has
// no variable map until the first assignment.
func (ctx *Context) setVar(name string, value float64) {
	if ctx.vars == nil {
		ctx.vars = make(map[string]float64)
	}
	ctx.vars[name] = value
}

func (ctx *Context) checkName(name string, col int) error {
	if _, ok := ctx.consts[name]; ok {
		return &ReservedNameError{Col: col, Name: name, Kind: "constant"}
	}
	if _, ok := ctx.funcs[name]; ok {
		return &ReservedNameError{Col: col, Name: name, Kind: "function"}
	}
	return nil
}

// Lookup returns the value of a constant or variable. The second result is
// false if there is no such name in the context.
func (ctx *Context) Lookup(name string) (float64, bool) {
	if v, ok := ctx.consts[name]; ok {
		return v, true
	}
	v, ok := ctx.vars[name]
	return v, ok
}

// Vars returns the names of the variables set in the context, sorted.
func (ctx *Context) Vars() []string {
	names := make([]string, 0, len(ctx.vars))
	for k := range ctx.vars {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// History returns the results recorded so far. It is always empty unless the
// context was created with KeepHistory.
func (ctx *Context) History() []float64 {
	return append(([]float64)(nil), ctx.history...)
}

// Eval evaluates an expression and returns the result. Evaluation never
// changes the variables in the context.
func (ctx *Context) Eval(e *Expr) (float64, error) {
	r, err := ctx.eval(e.n)
	ctx.stack = ctx.stack[:0]
	if err != nil {
		return 0, err
	}
	return r, nil
}

// Exec executes a statement. If the statement is an assignment, the value of
// its expression is stored in the target variable, replacing any previous
// value. If evaluation fails, no variable is created or changed.
func (ctx *Context) Exec(s *Stmt) (float64, error) {
	if s.Target != "" {
		if err := ctx.checkName(s.Target, s.Col); err != nil {
			ctx.log.Debug().Str("name", s.Target).Err(err).Msg("rejected assignment")
			return 0, err
		}
	}
	r, err := ctx.Eval(s.Expr)
	if err != nil {
		return 0, err
	}
	if s.Target != "" {
		ctx.setVar(s.Target, r)
		ctx.log.Debug().Str("name", s.Target).Float64("value", r).Msg("assigned")
	}
	if ctx.keep {
		ctx.history = append(ctx.history, r)
		ctx.log.Debug().Int("index", len(ctx.history)).Float64("value", r).Msg("recorded result")
	}
	return r, nil
}

// Run parses and executes a statement.
func (ctx *Context) Run(src string, opts ...ParseOption) (float64, error) {
	s, err := ParseStmt(src, opts...)
	if err != nil {
		return 0, err
	}
	return ctx.Exec(s)
}

// push pushes a value to the operand stack.
func (ctx *Context) push(x float64) {
	ctx.stack = append(ctx.stack, x)
}

// pop removes the top from the stack and returns it.
func (ctx *Context) pop() float64 {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *float64 {
	return &ctx.stack[len(ctx.stack)-1]
}

// task is an entry in the evaluator's work stack.
type task struct {
	n *node
	// ready indicates that the node's operands are already on the operand
	// stack.
	ready bool
	// fn and argc describe the call for a ready nodeCall.
	fn   Func
	argc int
}

// eval computes the value of a tree. Evaluation uses an explicit work stack
// rather than recursion, so the depth of the tree is limited only by memory.
func (ctx *Context) eval(root *node) (float64, error) {
	ctx.stack = ctx.stack[:0]
	work := linkedliststack.New()
	work.Push(task{n: root})
	var args []*node
	for !work.Empty() {
		v, _ := work.Pop()
		t := v.(task)
		n := t.n
		if !t.ready {
			switch n.kind {
			case nodeNum:
				ctx.push(n.num)
			case nodeName:
				x, ok := ctx.Lookup(n.name)
				if !ok {
					return 0, &NameError{Col: n.pos, Name: n.name}
				}
				ctx.push(x)
			case nodeCall:
				fn, ok := ctx.funcs[n.name]
				if !ok {
					return 0, &FuncError{Col: n.pos, Name: n.name}
				}
				args = args[:0]
				for l := n.right; l != nil; l = l.right {
					args = append(args, l)
				}
				if len(args) != fn.Arity {
					return 0, &CallError{Col: n.pos, Func: n.name, Want: fn.Arity, Got: len(args)}
				}
				work.Push(task{n: n, ready: true, fn: fn, argc: len(args)})
				// Push args in reverse so that they evaluate left to right.
				for i := len(args) - 1; i >= 0; i-- {
					work.Push(task{n: args[i].left})
				}
			case nodeArg:
				panic("calc: eval on nodeArg")
			case nodeNeg, nodeNop, nodeNot, nodeFact:
				work.Push(task{n: n, ready: true})
				work.Push(task{n: n.left})
			case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow,
				nodeEq, nodeNe, nodeLt, nodeLe, nodeGt, nodeGe,
				nodeAnd, nodeOr, nodeNand, nodeNor:
				work.Push(task{n: n, ready: true})
				work.Push(task{n: n.right})
				work.Push(task{n: n.left})
			default:
				panic("calc: invalid AST node " + n.kind.String())
			}
			continue
		}
		if err := ctx.apply(n, t); err != nil {
			return 0, err
		}
	}
	if len(ctx.stack) != 1 {
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	return ctx.stack[0], nil
}

// apply applies the operation of a node whose operands are on the stack.
func (ctx *Context) apply(n *node, t task) error {
	switch n.kind {
	case nodeCall:
		k := len(ctx.stack) - t.argc
		r, err := t.fn.call(ctx, ctx.stack[k:])
		if err != nil {
			if d, ok := err.(*DomainError); ok {
				d.Col = n.pos
			}
			return err
		}
		ctx.stack = ctx.stack[:k]
		ctx.push(r)
	case nodeNeg:
		v := ctx.top()
		*v = -*v
	case nodeNop:
		// do nothing
	case nodeNot:
		v := ctx.top()
		*v = truth(*v == 0)
	case nodeFact:
		v := ctx.top()
		r, ok := factorial(*v)
		if !ok {
			return &DomainError{Col: n.pos, X: *v, Func: "!"}
		}
		*v = r
	default:
		r := ctx.pop()
		l := ctx.top()
		x, err := binary(n, *l, r)
		if err != nil {
			return err
		}
		*l = x
	}
	return nil
}

// binary computes the result of a binary operator node.
func binary(n *node, l, r float64) (float64, error) {
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		if r == 0 {
			return 0, &DivisionError{Col: n.pos, Op: "/"}
		}
		return l / r, nil
	case nodeMod:
		if r == 0 {
			return 0, &DivisionError{Col: n.pos, Op: "%"}
		}
		return math.Mod(l, r), nil
	case nodePow:
		x, err := power(l, r)
		if err != nil {
			err.(*DomainError).Col = n.pos
		}
		return x, err
	case nodeEq:
		return truth(l == r), nil
	case nodeNe:
		return truth(l != r), nil
	case nodeLt:
		return truth(l < r), nil
	case nodeLe:
		return truth(l <= r), nil
	case nodeGt:
		return truth(l > r), nil
	case nodeGe:
		return truth(l >= r), nil
	case nodeAnd:
		return truth(l != 0 && r != 0), nil
	case nodeOr:
		return truth(l != 0 || r != 0), nil
	case nodeNand:
		return truth(!(l != 0 && r != 0)), nil
	case nodeNor:
		return truth(!(l != 0 || r != 0)), nil
	default:
		panic("calc: invalid binary node " + n.kind.String())
	}
}

// truth converts a bool to 1 or 0.
func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// EvalString is a shortcut to parse and execute a statement in a new context.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	return NewContext(opts...).Run(src)
}
