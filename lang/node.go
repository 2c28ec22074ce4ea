package lang

import (
	"iter"
	"strings"
)

// Kind indicates the variant of a [Node].
type Kind int

const (
	// KindSymbol identifies a [Symbol] leaf.
	KindSymbol Kind = iota

	// KindExpression identifies an [Expression] sequence.
	KindExpression
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "Symbol"

	case KindExpression:
		return "Expression"

	default:
		return "Unknown"
	}
}

// Node is an element of an expression tree: either a [Symbol] or an
// [Expression]. The set of implementations is closed.
type Node interface {
	Kind() Kind
	String() string

	node()
}

// Symbol is an immutable leaf node. Two symbols are equal iff their values
// are equal, so Symbol is usable directly as a map key.
type Symbol string

// Empty is the empty symbol returned by side-effect-only functions and used
// to mark tail-capture wrappers.
const Empty Symbol = ""

func (Symbol) node() {}

// Kind implements [Node].
func (Symbol) Kind() Kind { return KindSymbol }

// Value returns the raw text of the symbol.
func (s Symbol) Value() string { return string(s) }

// String returns the symbol in source form. Symbols that would not survive
// a round trip through the parser as a bare word are quoted.
func (s Symbol) String() string {
	if needsQuoting(string(s)) {
		return quote(string(s))
	}

	return string(s)
}

// Expression is an ordered, immutable sequence of nodes.
// The zero value is the empty expression.
type Expression struct {
	items []Node
}

// NewExpression returns an Expression holding a copy of items.
func NewExpression(items ...Node) Expression {
	if len(items) == 0 {
		return Expression{}
	}

	return Expression{items: append([]Node(nil), items...)}
}

// Symbols returns an Expression whose items are the given symbol values.
func Symbols(values ...string) Expression {
	items := make([]Node, len(values))
	for i, v := range values {
		items[i] = Symbol(v)
	}

	return Expression{items: items}
}

func (Expression) node() {}

// Kind implements [Node].
func (Expression) Kind() Kind { return KindExpression }

// Len returns the number of items in the expression.
func (e Expression) Len() int { return len(e.items) }

// At returns the item at index i. It panics if i is out of range.
func (e Expression) At(i int) Node { return e.items[i] }

// Head returns the first item, or nil if the expression is empty.
func (e Expression) Head() Node {
	if len(e.items) == 0 {
		return nil
	}

	return e.items[0]
}

// All returns an iterator over the items with their indices.
func (e Expression) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, n := range e.items {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Items returns a copy of the items.
func (e Expression) Items() []Node {
	return append([]Node(nil), e.items...)
}

// tail returns a new expression holding [Empty, items[from:]...].
// The leading empty symbol marks the expression as a tail capture so that
// the default rendering rule drops nothing of the captured arguments.
func (e Expression) tail(from int) Expression {
	items := make([]Node, 0, len(e.items)-from+1)
	items = append(items, Empty)
	items = append(items, e.items[from:]...)

	return Expression{items: items}
}

// String returns the expression in source form.
func (e Expression) String() string {
	var b strings.Builder

	b.WriteByte('(')

	for i, n := range e.items {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(n.String())
	}

	b.WriteByte(')')

	return b.String()
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Symbol:
		y, ok := b.(Symbol)

		return ok && x == y

	case Expression:
		y, ok := b.(Expression)
		if !ok || x.Len() != y.Len() {
			return false
		}

		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}

		return true

	default:
		return a == nil && b == nil
	}
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if isDelimiter(r) || r == '\\' {
			return true
		}
	}

	return false
}

func quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('"')

	return b.String()
}
