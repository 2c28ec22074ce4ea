// Package lang implements a small macro language that expands trees of
// symbols and parenthesized expressions into flat text, typically markdown.
//
// # Syntax
//
// A document is a sequence of items. An item is a bare word, a double-quoted
// string, or a parenthesized list of items:
//
//	(define greet (name) (Hello, name))
//	(greet world)
//
// Bare words and strings both become a [Symbol]; lists become an
// [Expression]. The whole document is itself an Expression.
//
// # Evaluation
//
// An [Evaluator] renders an expression by its head. If the head is a symbol
// bound in the function namespace, that [Function] receives the whole
// expression; otherwise the fallback joins the rendered items with single
// spaces. Every result is trimmed of surrounding whitespace.
//
// Symbols resolve through the value namespace. A symbol with no binding
// stands for itself, so plain text needs no quoting:
//
//	(foo bar baz)   => foo bar baz
//	()              => (empty)
//
// # Built-ins
//
//	(define name (p1 ... pN) body)   register a function, yields ""
//	(paren a b)                      => (a b)
//	(no-spaces a b c)                => abc
//
// A defined function binds its parameters positionally. The last parameter
// captures every remaining argument:
//
//	(define list (first rest) rest)
//	(list a b c)                     => b c
//
// # Scoping
//
// Every call runs in a snapshot of its caller's environment. Bindings made
// during the call are discarded when it returns. Functions created by
// define go into the evaluator's root table: top-level items see the
// definitions of earlier items, while scopes that are already open do not.
package lang
