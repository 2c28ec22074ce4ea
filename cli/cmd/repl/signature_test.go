package repl

import (
	"testing"

	"github.com/ardnew/mdse/lang"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   call
		wantOK bool
	}{
		{"outside", "plain text", call{}, false},
		{"on head", "(em", call{head: "em", arg: -1}, true},
		{"first arg start", "(em ", call{head: "em", arg: 0}, true},
		{"first arg", "(em wor", call{head: "em", arg: 0}, true},
		{"second arg", "(link text ur", call{head: "link", arg: 1}, true},
		{"after nested", "(em (paren x)", call{head: "em", arg: 0}, true},
		{"after nested space", "(em (paren x) ", call{head: "em", arg: 1}, true},
		{"inner call", "(em (paren x", call{head: "paren", arg: 0}, true},
		{"closed", "(em x) ", call{}, false},
		{"expression head", "((a) b", call{}, false},
		{"empty", "(", call{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectCall(tt.input, len(tt.input))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("detectCall(%q) = %+v, %v; want %+v, %v",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLookupSignature(t *testing.T) {
	ev := lang.New()

	if _, err := ev.EvalString(t.Context(), "(define link (text url) ((no-spaces < url >) text))"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"link", "(link text url...)"},
		{"define", "(define name (params) body)"},
		{"paren", "(paren args...)"},
		{"no-spaces", "(no-spaces args...)"},
	}

	for _, tt := range tests {
		sig, ok := lookupSignature(ev, tt.name)
		if !ok {
			t.Errorf("lookupSignature(%q) not found", tt.name)

			continue
		}

		if got := plain(sig.String()); got != tt.want {
			t.Errorf("signature(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, ok := lookupSignature(ev, "missing"); ok {
		t.Error("lookupSignature(missing) found")
	}
}

func TestSignature_Current(t *testing.T) {
	fixed := signature{params: []string{"a", "b"}}
	variadic := signature{params: []string{"a", "rest"}, variadic: true}

	tests := []struct {
		sig  signature
		arg  int
		want int
	}{
		{fixed, -1, -1},
		{fixed, 0, 0},
		{fixed, 1, 1},
		{fixed, 2, -1},
		{variadic, 5, 1},
		{signature{}, 0, -1},
	}

	for _, tt := range tests {
		if got := tt.sig.current(tt.arg); got != tt.want {
			t.Errorf("%+v.current(%d) = %d, want %d", tt.sig, tt.arg, got, tt.want)
		}
	}
}
