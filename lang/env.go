package lang

// This file defines the two-namespace evaluation environment. Both
// namespaces are persistent hash maps, so an Environment is a small value
// whose copies share structure: taking a snapshot for a call is O(1), and
// extending a snapshot never affects the scope it was taken from.

import (
	"context"
	"iter"
	"slices"

	"github.com/benbjohnson/immutable"
	"github.com/zeebo/xxh3"
)

// symbolHasher hashes symbols for the persistent maps.
type symbolHasher struct{}

func (symbolHasher) Hash(key Symbol) uint32 {
	return uint32(xxh3.HashString(string(key)))
}

func (symbolHasher) Equal(a, b Symbol) bool { return a == b }

// Environment pairs the function bindings and the value bindings visible to
// one call. The zero value has no bindings and cannot evaluate nested
// expressions; environments are created by an [Evaluator].
type Environment struct {
	functions *immutable.Map[Symbol, Function]
	values    *immutable.Map[Symbol, Node]
	eval      *Evaluator
	depth     int

	// live marks the evaluator's top-level scope. Lookups and snapshots of a
	// live environment read the evaluator's current root tables, so items of
	// a document observe defines performed by earlier items.
	live bool
}

func newFunctionMap() *immutable.Map[Symbol, Function] {
	return immutable.NewMap[Symbol, Function](symbolHasher{})
}

func newValueMap() *immutable.Map[Symbol, Node] {
	return immutable.NewMap[Symbol, Node](symbolHasher{})
}

// snapshot returns a detached copy of e. Extending the copy does not affect
// e, and later changes to the evaluator's root do not affect the copy.
func (e Environment) snapshot() Environment {
	if e.live {
		root := e.eval.root()
		root.depth = e.depth

		return root
	}

	return e
}

// Lookup returns the Function bound to sym, if any.
func (e Environment) Lookup(sym Symbol) (Function, bool) {
	fns := e.snapshot().functions
	if fns == nil {
		return nil, false
	}

	return fns.Get(sym)
}

// Resolve returns the node bound to sym in the value namespace.
// A symbol with no bound value resolves to itself.
func (e Environment) Resolve(sym Symbol) Node {
	vals := e.snapshot().values
	if vals == nil {
		return sym
	}

	if n, ok := vals.Get(sym); ok {
		return n
	}

	return sym
}

// Bind returns a copy of e with sym bound to node in the value namespace.
func (e Environment) Bind(sym Symbol, node Node) Environment {
	s := e.snapshot()
	if s.values == nil {
		s.values = newValueMap()
	}

	s.values = s.values.Set(sym, node)

	return s
}

// WithFunction returns a copy of e with sym bound to fn in the function
// namespace.
func (e Environment) WithFunction(sym Symbol, fn Function) Environment {
	s := e.snapshot()
	if s.functions == nil {
		s.functions = newFunctionMap()
	}

	s.functions = s.functions.Set(sym, fn)

	return s
}

// Functions returns the names bound in the function namespace in sorted
// order.
func (e Environment) Functions() iter.Seq[Symbol] {
	return sortedSymbols(e.snapshot().functions)
}

// Depth returns the call depth at which e was opened.
func (e Environment) Depth() int { return e.depth }

// Evaluate dispatches expr on a fresh snapshot of e.
//
// An empty expression evaluates to [Empty]. Otherwise, if the head of expr
// is a symbol bound in the function namespace, that Function handles the
// whole expression (head included); any other head is handled by the
// evaluator's default fallback.
func (e Environment) Evaluate(ctx context.Context, expr Expression) (Symbol, error) {
	if e.eval == nil {
		return Empty, ErrNoEvaluator
	}

	return e.eval.dispatch(ctx, expr, e)
}

// Render resolves a single argument node to its text: symbols are looked up
// in the value namespace (a bound expression is evaluated), and expressions
// are evaluated.
func (e Environment) Render(ctx context.Context, node Node) (string, error) {
	switch n := node.(type) {
	case Symbol:
		switch v := e.Resolve(n).(type) {
		case Symbol:
			return v.Value(), nil

		case Expression:
			s, err := e.Evaluate(ctx, v)

			return s.Value(), err
		}

	case Expression:
		s, err := e.Evaluate(ctx, n)

		return s.Value(), err
	}

	return "", nil
}

func sortedSymbols[V any](m *immutable.Map[Symbol, V]) iter.Seq[Symbol] {
	var keys []Symbol

	if m != nil {
		itr := m.Iterator()
		for !itr.Done() {
			k, _, _ := itr.Next()
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	return slices.Values(keys)
}
