package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Each node owns
// its children; trees are never shared between expressions.
type node struct {
	kind nodeKind

	// name is the literal text of a nodeNum, the name of a nodeName or
	// nodeCall, or empty.
	name string
	// num is the value of a nodeNum.
	num float64
	// pos is the column of the token that produced the node.
	pos int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)

	nodeCall // name is func to call, right is link to nodeArg unless niladic
	nodeArg  // eval left, right is link to next arg

	nodeNeg  // evaluate left, then negate
	nodeNop  // evaluate left
	nodeNot  // evaluate left, then boolean not
	nodeFact // evaluate left, then factorial

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodeMod // evaluate left, mod by right
	nodePow // evaluate left, exp by right

	nodeEq // evaluate left, compare right
	nodeNe
	nodeLt
	nodeLe
	nodeGt
	nodeGe

	nodeAnd // evaluate left, then right, combine truth values
	nodeOr
	nodeNand
	nodeNor

	nodeKinds
)

var nodeKindNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeName: "Name",
	nodeCall: "Call",
	nodeArg:  "Arg",
	nodeNeg:  "Neg",
	nodeNop:  "Nop",
	nodeNot:  "Not",
	nodeFact: "Fact",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodeMod:  "Mod",
	nodePow:  "Pow",
	nodeEq:   "Eq",
	nodeNe:   "Ne",
	nodeLt:   "Lt",
	nodeLe:   "Le",
	nodeGt:   "Gt",
	nodeGe:   "Ge",
	nodeAnd:  "And",
	nodeOr:   "Or",
	nodeNand: "Nand",
	nodeNor:  "Nor",
}

func (k nodeKind) String() string {
	if k < 0 || k >= nodeKinds {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// symbol is the canonical spelling of an operator node.
func (k nodeKind) symbol() string {
	switch k {
	case nodeNeg, nodeSub:
		return "-"
	case nodeNop, nodeAdd:
		return "+"
	case nodeNot:
		return "not"
	case nodeFact:
		return "!"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodeMod:
		return "%"
	case nodePow:
		return "^"
	case nodeEq:
		return "=="
	case nodeNe:
		return "!="
	case nodeLt:
		return "<"
	case nodeLe:
		return "<="
	case nodeGt:
		return ">"
	case nodeGe:
		return ">="
	case nodeAnd:
		return "and"
	case nodeOr:
		return "or"
	case nodeNand:
		return "nand"
	case nodeNor:
		return "nor"
	default:
		return ""
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b)
	case nodeArg:
		// Args usually only appear inside calls, which are handled by fmtargs.
		b.WriteByte(':')
		n.left.fmt(b)
		if n.right != nil {
			n.right.fmt(b)
		}
	case nodeNeg, nodeNop:
		b.WriteByte('(')
		b.WriteString(n.kind.symbol())
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeNot:
		b.WriteString("(not ")
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeFact:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteString("!)")
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow,
		nodeEq, nodeNe, nodeLt, nodeLe, nodeGt, nodeGe,
		nodeAnd, nodeOr, nodeNand, nodeNor:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.kind.symbol())
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	for l := n.right; l != nil; l = l.right {
		if l.kind != nodeArg {
			b.WriteString("***")
			l.fmt(b)
			return
		}
		if l != n.right {
			b.WriteString(", ")
		}
		l.left.fmt(b)
	}
}
