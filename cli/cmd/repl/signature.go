package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/mdse/lang"
)

// call describes the innermost open expression around the cursor.
type call struct {
	head string
	arg  int // index of the argument under the cursor; -1 on the head
}

// detectCall finds the innermost expression that is open at cursor and
// returns its head symbol and the argument position of the cursor. ok is
// false outside any expression or when the head is not a symbol.
func detectCall(input string, cursor int) (c call, ok bool) {
	cursor = min(max(cursor, 0), len(input))

	open := -1
	depth := 0

	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}

		if open >= 0 {
			break
		}
	}

	if open < 0 {
		return call{}, false
	}

	var (
		items  int
		inWord bool
		head   strings.Builder
	)

	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch {
		case r == '(':
			if depth == 0 {
				items++
			}

			depth++
			inWord = false

		case r == ')':
			depth--
			inWord = false

		case unicode.IsSpace(r):
			inWord = false

		default:
			if depth == 0 && !inWord {
				items++
				inWord = true
			}

			if depth == 0 && items == 1 && inWord {
				head.WriteRune(r)
			}
		}
	}

	if head.Len() == 0 {
		return call{}, false
	}

	// The cursor starts a new argument only after whitespace.
	at := items - 1
	if last, _ := utf8.DecodeLastRuneInString(input[open+1 : cursor]); !unicode.IsSpace(last) {
		at--
	}

	return call{head: head.String(), arg: at}, true
}

// signature is the parameter list shown while typing a call.
type signature struct {
	name     string
	params   []string
	variadic bool // last parameter captures all remaining arguments
}

// builtinSignatures describe the functions every evaluator starts with.
var builtinSignatures = map[lang.Symbol]signature{
	lang.DefineName:   {name: string(lang.DefineName), params: []string{"name", "(params)", "body"}},
	lang.ParenName:    {name: string(lang.ParenName), params: []string{"args"}, variadic: true},
	lang.NoSpacesName: {name: string(lang.NoSpacesName), params: []string{"args"}, variadic: true},
}

// lookupSignature returns the signature of the function bound to name.
func lookupSignature(ev *lang.Evaluator, name string) (signature, bool) {
	fn, ok := ev.Lookup(lang.Symbol(name))
	if !ok {
		return signature{}, false
	}

	if def, ok := fn.(lang.DefinedFunction); ok {
		sig := signature{name: name, variadic: len(def.Parameters) > 0}
		for _, p := range def.Parameters {
			sig.params = append(sig.params, p.Value())
		}

		return sig, true
	}

	sig, ok := builtinSignatures[lang.Symbol(name)]

	return sig, ok
}

// current returns the index of the parameter bound at argument position
// arg, or -1 if none is.
func (s signature) current(arg int) int {
	switch {
	case arg < 0 || len(s.params) == 0:
		return -1
	case arg < len(s.params):
		return arg
	case s.variadic:
		return len(s.params) - 1
	default:
		return -1
	}
}

// String renders s in call syntax.
func (s signature) String() string {
	return s.render(-1)
}

// render writes s with the parameter at index current emphasized.
func (s signature) render(current int) string {
	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(s.name))

	for i, p := range s.params {
		if s.variadic && i == len(s.params)-1 {
			p += "..."
		}

		b.WriteString(signatureStyle.Render(" "))

		if i == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
