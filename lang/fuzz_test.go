package lang

import (
	"bytes"
	"testing"
	"unicode/utf8"
)

// FuzzParseString checks that the parser never panics and that formatted
// output parses back to the same tree.
func FuzzParseString(f *testing.F) {
	f.Add("foo")
	f.Add("(a b c)")
	f.Add(`"quoted \"string\""`)
	f.Add(`(define greet (name) (hello name)) (greet world)`)
	f.Add(`\(escaped\)`)
	f.Add("((nested (deeply)) x)")
	f.Add(")")
	f.Add(`"unterminated`)
	f.Add("tab\tand\nnewline")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		doc, err := ParseString(t.Context(), input)
		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := Format(t.Context(), &buf, doc, 2); err != nil {
			t.Fatalf("Format() error: %v", err)
		}

		back, err := ParseString(t.Context(), buf.String())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", buf.String(), err)
		}

		if !Equal(back, doc) {
			t.Fatalf("round trip of %q = %s, want %s", input, back, doc)
		}
	})
}

// FuzzEval checks that evaluation never panics and either succeeds or
// returns an error.
func FuzzEval(f *testing.F) {
	f.Add("(foo bar)")
	f.Add("(define f (a b) (a b)) (f x y z)")
	f.Add("(define) (paren) (no-spaces)")
	f.Add("(define f (x) ((f x))) (f a)")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		_, _ = New(WithMaxDepth(16)).EvalString(t.Context(), input)
	})
}
