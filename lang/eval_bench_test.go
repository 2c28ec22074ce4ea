package lang

import (
	"strings"
	"testing"
)

func BenchmarkEval(b *testing.B) {
	tests := []struct {
		name   string
		source string
	}{
		{"literals", `(# Heading) (some plain text with several words)`},
		{
			name:   "defined",
			source: `(define link (text url) ((no-spaces [ text ] (paren url)))) (link docs example.com)`,
		},
		{
			name: "document",
			source: strings.Repeat(
				`(define li (item) ((no-spaces "- " item))) (li one) (li two) (li three) `,
				50,
			),
		},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			doc, err := ParseString(b.Context(), tt.source)
			if err != nil {
				b.Fatalf("parse error: %v", err)
			}

			ev := New()

			for b.Loop() {
				if _, err := ev.Eval(b.Context(), doc); err != nil {
					b.Fatalf("eval error: %v", err)
				}
			}
		})
	}
}

func BenchmarkParseString(b *testing.B) {
	source := strings.Repeat(`(define greet (name) (hello name)) (greet "big world") `, 100)

	for b.Loop() {
		if _, err := ParseString(b.Context(), source); err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}

func BenchmarkParseReader_Cached(b *testing.B) {
	ClearCache()
	b.Cleanup(ClearCache)

	source := strings.Repeat(`(a (b c) "d e") `, 100)

	for b.Loop() {
		if _, err := ParseReader(b.Context(), strings.NewReader(source)); err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}
