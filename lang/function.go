package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Names of the built-in functions bound in every new [Evaluator].
const (
	DefineName   Symbol = "define"
	ParenName    Symbol = "paren"
	NoSpacesName Symbol = "no-spaces"
)

// Function is a callable bound in the function namespace of an
// [Environment]. The call expression includes its head symbol.
type Function interface {
	Evaluate(ctx context.Context, call Expression, env Environment) (Symbol, error)
}

// FunctionFunc adapts an ordinary function to the [Function] interface.
type FunctionFunc func(ctx context.Context, call Expression, env Environment) (Symbol, error)

// Evaluate implements [Function].
func (f FunctionFunc) Evaluate(
	ctx context.Context,
	call Expression,
	env Environment,
) (Symbol, error) {
	return f(ctx, call, env)
}

// DefaultFunction joins the rendered items of a call into one string.
//
// The first Skip items are dropped, every remaining item is rendered with
// [Environment.Render] and followed by Separator, and the result is wrapped
// in Prefix and Postfix and trimmed.
type DefaultFunction struct {
	Separator string
	Prefix    string
	Postfix   string
	Skip      int
}

// Fallback renders a whole expression, head included, as space-joined text.
// It handles every expression whose head is not a bound function.
var Fallback = DefaultFunction{Separator: " "}

// Paren renders the arguments of a call space-joined inside parentheses.
var Paren = DefaultFunction{Separator: " ", Skip: 1, Prefix: "(", Postfix: ")"}

// NoSpaces concatenates the arguments of a call with no separator.
var NoSpaces = DefaultFunction{Skip: 1}

// Evaluate implements [Function].
func (f DefaultFunction) Evaluate(
	ctx context.Context,
	call Expression,
	env Environment,
) (Symbol, error) {
	var b strings.Builder

	skipped := 0

	b.WriteString(f.Prefix)

	for _, item := range call.All() {
		if skipped < f.Skip {
			skipped++

			continue
		}

		s, err := env.Render(ctx, item)
		if err != nil {
			return Empty, err
		}

		b.WriteString(s)
		b.WriteString(f.Separator)
	}

	out := b.String()

	if call.Len() > 1 && call.Len() > skipped {
		out = out[:len(out)-len(f.Separator)]
	}

	return Symbol(trim(out + f.Postfix)), nil
}

// DefinedFunction is a function created by the define special form.
type DefinedFunction struct {
	Body       Node
	Parameters []Symbol
}

// Evaluate implements [Function].
//
// Parameters are bound positionally to the raw argument nodes of call. The
// last parameter captures every remaining argument as a single expression
// whose head is [Empty].
func (f DefinedFunction) Evaluate(
	ctx context.Context,
	call Expression,
	env Environment,
) (Symbol, error) {
	last := len(f.Parameters) - 1

	for i := 0; i <= last && i+1 < call.Len(); i++ {
		if i == last {
			env = env.Bind(f.Parameters[i], call.tail(i+1))
		} else {
			env = env.Bind(f.Parameters[i], call.At(i+1))
		}
	}

	switch body := f.Body.(type) {
	case Symbol:
		return f.evaluateSymbol(ctx, body, call, env)

	case Expression:
		return f.evaluateExpression(ctx, body, env)

	default:
		return Empty, nil
	}
}

// evaluateSymbol handles a body that is a single symbol. A parameter name
// yields its argument unevaluated; the tail parameter yields its whole
// capture. Anything else is a literal.
func (f DefinedFunction) evaluateSymbol(
	ctx context.Context,
	body Symbol,
	call Expression,
	env Environment,
) (Symbol, error) {
	i := slices.Index(f.Parameters, body)
	if i == -1 || i+1 >= call.Len() {
		return body, nil
	}

	if i == len(f.Parameters)-1 {
		if tail, ok := env.Resolve(body).(Expression); ok {
			return env.Evaluate(ctx, tail)
		}
	}

	if arg, ok := call.At(i + 1).(Symbol); ok {
		return arg, nil
	}

	return body, nil
}

// evaluateExpression renders each item of body. A symbol that resolves to a
// symbol is always followed by one space; evaluated expressions are not.
func (f DefinedFunction) evaluateExpression(
	ctx context.Context,
	body Expression,
	env Environment,
) (Symbol, error) {
	var b strings.Builder

	for _, item := range body.All() {
		switch n := item.(type) {
		case Symbol:
			switch v := env.Resolve(n).(type) {
			case Symbol:
				b.WriteString(v.Value())
				b.WriteByte(' ')

			case Expression:
				s, err := env.Evaluate(ctx, v)
				if err != nil {
					return Empty, err
				}

				b.WriteString(s.Value())
			}

		case Expression:
			s, err := env.Evaluate(ctx, n)
			if err != nil {
				return Empty, err
			}

			b.WriteString(s.Value())
		}
	}

	return Symbol(trim(b.String())), nil
}

// define implements the define special form:
//
//	(define <name> (<param> ...) <body>)
//
// The new function is registered in the evaluator's root table; the body is
// stored unevaluated.
func (ev *Evaluator) define(
	ctx context.Context,
	call Expression,
	env Environment,
) (Symbol, error) {
	if call.Len() < 4 {
		return Empty, ErrMalformedDefine.With(
			slog.String("form", call.String()),
			slog.String("reason", "expected name, parameter list, and body"),
		)
	}

	name, ok := call.At(1).(Symbol)
	if !ok {
		return Empty, ErrMalformedDefine.With(
			slog.String("form", call.String()),
			slog.String("reason", "name must be a symbol"),
		)
	}

	list, ok := call.At(2).(Expression)
	if !ok {
		return Empty, ErrMalformedDefine.With(
			slog.String("name", name.Value()),
			slog.String("reason", "parameters must be a list"),
		)
	}

	params := make([]Symbol, 0, list.Len())

	for i, item := range list.All() {
		p, ok := item.(Symbol)
		if !ok {
			return Empty, ErrMalformedDefine.With(
				slog.String("name", name.Value()),
				slog.Int("parameter", i),
				slog.String("reason", "parameter must be a symbol"),
			)
		}

		params = append(params, p)
	}

	ev.register(name, DefinedFunction{Parameters: params, Body: call.At(3)})

	ev.logger.TraceContext(ctx, "define",
		slog.String("name", name.Value()),
		slog.Int("arity", len(params)),
		slog.Int("depth", env.Depth()),
	)

	return Empty, nil
}

// trim removes leading and trailing runes at or below U+0020.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
