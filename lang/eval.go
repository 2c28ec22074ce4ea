package lang

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/benbjohnson/immutable"

	"github.com/ardnew/mdse/log"
)

// DefaultMaxDepth is the default limit on nested expression evaluation.
const DefaultMaxDepth = 1000

// Evaluator owns the root function table and evaluates documents against it.
//
// An Evaluator is safe for concurrent use. Functions registered with define
// persist across calls to [Evaluator.Eval].
type Evaluator struct {
	logger    log.Logger
	fallback  Function
	functions *immutable.Map[Symbol, Function]
	values    *immutable.Map[Symbol, Node]
	mu        sync.RWMutex
	maxDepth  int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithMaxDepth limits the nesting depth of evaluated expressions.
// A limit of zero or less disables the check.
func WithMaxDepth(depth int) Option {
	return func(ev *Evaluator) { ev.maxDepth = depth }
}

// WithLogger sets the logger used for evaluation tracing.
func WithLogger(logger log.Logger) Option {
	return func(ev *Evaluator) { ev.logger = logger }
}

// WithBuiltin binds fn to name in the root function table, replacing any
// existing binding.
func WithBuiltin(name Symbol, fn Function) Option {
	return func(ev *Evaluator) { ev.functions = ev.functions.Set(name, fn) }
}

// WithValue binds node to name in the root value namespace.
func WithValue(name Symbol, node Node) Option {
	return func(ev *Evaluator) { ev.values = ev.values.Set(name, node) }
}

// New returns an Evaluator with the built-in functions define, paren, and
// no-spaces bound in its root table.
func New(opts ...Option) *Evaluator {
	ev := &Evaluator{
		fallback:  Fallback,
		functions: newFunctionMap(),
		values:    newValueMap(),
		maxDepth:  DefaultMaxDepth,
	}

	ev.functions = ev.functions.
		Set(DefineName, FunctionFunc(ev.define)).
		Set(ParenName, Paren).
		Set(NoSpacesName, NoSpaces)

	for _, opt := range opts {
		opt(ev)
	}

	return ev
}

// Eval renders doc with the fallback rule against the root environment.
//
// Each item of doc observes the functions defined by the items before it.
func (ev *Evaluator) Eval(ctx context.Context, doc Expression) (Symbol, error) {
	env := Environment{eval: ev, live: true}

	ev.logger.TraceContext(ctx, "eval",
		slog.Int("items", doc.Len()),
	)

	return ev.fallback.Evaluate(ctx, doc, env)
}

// EvalString parses src as a document and evaluates it.
func (ev *Evaluator) EvalString(ctx context.Context, src string) (string, error) {
	doc, err := ParseString(ctx, src)
	if err != nil {
		return "", err
	}

	out, err := ev.Eval(ctx, doc)

	return out.Value(), err
}

// Functions returns the names bound in the root function table in sorted
// order.
func (ev *Evaluator) Functions() iter.Seq[Symbol] {
	return ev.root().Functions()
}

// Lookup returns the Function bound to name in the root table.
func (ev *Evaluator) Lookup(name Symbol) (Function, bool) {
	return ev.root().Lookup(name)
}

// MaxDepth returns the configured nesting limit.
func (ev *Evaluator) MaxDepth() int { return ev.maxDepth }

// root returns a detached environment holding the current root tables.
func (ev *Evaluator) root() Environment {
	ev.mu.RLock()
	defer ev.mu.RUnlock()

	return Environment{
		functions: ev.functions,
		values:    ev.values,
		eval:      ev,
	}
}

// register binds fn to name in the root function table.
func (ev *Evaluator) register(name Symbol, fn Function) {
	ev.mu.Lock()
	defer ev.mu.Unlock()

	ev.functions = ev.functions.Set(name, fn)
}

// dispatch evaluates expr in a snapshot of env one level deeper.
func (ev *Evaluator) dispatch(
	ctx context.Context,
	expr Expression,
	env Environment,
) (Symbol, error) {
	if expr.Len() == 0 {
		return Empty, nil
	}

	if err := ctx.Err(); err != nil {
		return Empty, err
	}

	depth := env.depth + 1
	if ev.maxDepth > 0 && depth > ev.maxDepth {
		return Empty, ErrMaxDepthExceeded.With(
			slog.Int("depth", depth),
			slog.Int("max_depth", ev.maxDepth),
		)
	}

	scope := env.snapshot()
	scope.depth = depth

	fn := ev.fallback
	head, _ := expr.Head().(Symbol)

	if bound, ok := scope.Lookup(head); ok && head != Empty {
		fn = bound
	}

	ev.logger.TraceContext(ctx, "dispatch",
		slog.String("head", head.Value()),
		slog.Int("items", expr.Len()),
		slog.Int("depth", depth),
	)

	return fn.Evaluate(ctx, expr, scope)
}
