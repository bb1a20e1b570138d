package calc

// DefaultMaxDepth is the default limit on nesting of subexpressions.
const DefaultMaxDepth = 1000

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// depth is the current nesting depth of the recursive descent.
	depth int
	// maxdepth is the limit on depth.
	maxdepth int
}

func newparsectx(opts []ParseOption) parsectx {
	p := parsectx{
		names:    make(map[string]bool),
		maxdepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// enter records one more level of nesting, failing if that exceeds the
// configured maximum.
func (p *parsectx) enter(scan *lexer) error {
	p.depth++
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return &DepthError{Col: scan.last, Max: p.maxdepth}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// MaxDepth limits how deeply subexpressions may nest, counting parentheses,
// prefix operators, and binary operators whose right operand binds more
// tightly. Parsing fails with a DepthError on deeper inputs. A limit of zero
// or less removes the limit.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}
