package markdown

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/mdse/lang"
)

const heading = `(define h1 (title) ((no-spaces "# " title))) (h1 Release notes)`

func TestRenderer_Markdown(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"heading", heading, "# Release notes\n"},
		{"plain", `(just some words)`, "just some words\n"},
		{"empty", `(define nothing () x)`, ""},
		{
			name:   "link",
			source: `(define link (text url) ((no-spaces [ text ] "(" url ")"))) (link docs https://example.com)`,
			want:   "[docs](https://example.com)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := New().Markdown(t.Context(), &buf, strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("Markdown() error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Markdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderer_HTML(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		reject  string
		options []Option
	}{
		{
			name:   "heading",
			source: heading,
			want:   `<h1 id="release-notes">Release notes</h1>`,
		},
		{
			name:   "strikethrough",
			source: `"~~gone~~"`,
			want:   "<del>gone</del>",
		},
		{
			name:   "raw html omitted",
			source: `"<b>x</b>"`,
			want:   "raw HTML omitted",
			reject: "<b>",
		},
		{
			name:    "raw html unsafe",
			source:  `"<b>x</b>"`,
			want:    "<b>x</b>",
			options: []Option{WithUnsafe(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := New(tt.options...).HTML(t.Context(), &buf, strings.NewReader(tt.source))
			if err != nil {
				t.Fatalf("HTML() error: %v", err)
			}

			got := buf.String()
			if !strings.Contains(got, tt.want) {
				t.Errorf("HTML() = %q, want it to contain %q", got, tt.want)
			}

			if tt.reject != "" && strings.Contains(got, tt.reject) {
				t.Errorf("HTML() = %q, want it not to contain %q", got, tt.reject)
			}
		})
	}
}

func TestRenderer_SharedEvaluator(t *testing.T) {
	ev := lang.New()
	r := New(WithEvaluator(ev))

	if r.Evaluator() != ev {
		t.Fatal("Evaluator() did not return the configured evaluator")
	}

	var buf bytes.Buffer

	if err := r.Markdown(t.Context(), &buf, strings.NewReader(heading)); err != nil {
		t.Fatalf("first document: %v", err)
	}

	buf.Reset()

	if err := r.Markdown(t.Context(), &buf, strings.NewReader(`(h1 Again)`)); err != nil {
		t.Fatalf("second document: %v", err)
	}

	if got := buf.String(); got != "# Again\n" {
		t.Errorf("second document = %q, want %q", got, "# Again\n")
	}
}

func TestRenderer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		cause  error
	}{
		{"parse", `(unterminated`, lang.ErrParse},
		{"define", `(define)`, lang.ErrMalformedDefine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := New().HTML(t.Context(), &buf, strings.NewReader(tt.source))
			if !errors.Is(err, ErrExpand) || !errors.Is(err, tt.cause) {
				t.Errorf("HTML() error = %v, want %v wrapping %v", err, ErrExpand, tt.cause)
			}

			if buf.Len() != 0 {
				t.Errorf("HTML() wrote %q on error", buf.String())
			}
		})
	}
}
