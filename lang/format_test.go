package lang

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		indent int
	}{
		{"flat", `(a (b c)) d`, "(a (b c))\nd\n", 0},
		{"indented", `(a (b c)) d`, "(a\n  (b c))\nd\n", 2},
		{"deep", `((x (y)) z)`, "((x\n    (y))\n  z)\n", 2},
		{"symbols only", `(a b c)`, "(a b c)\n", 4},
		{"quoted", `("a b" "" \( "q\"")`, `("a b" "" "(" "q\"")` + "\n", 0},
		{"control", `"x\ny"`, `"x\ny"` + "\n", 0},
		{"empty", ``, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("ParseString() error: %v", err)
			}

			var buf bytes.Buffer
			if err := Format(t.Context(), &buf, doc, tt.indent); err != nil {
				t.Fatalf("Format() error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}

			back, err := ParseString(t.Context(), buf.String())
			if err != nil {
				t.Fatalf("reparse error: %v", err)
			}

			if !Equal(back, doc) {
				t.Errorf("round trip = %s, want %s", back, doc)
			}
		})
	}
}

func TestToNative(t *testing.T) {
	doc := NewExpression(
		NewExpression(Symbol("a"), Symbols("b")),
		Symbol("c"),
	)

	want := []any{[]any{"a", []any{"b"}}, "c"}
	if got := ToNative(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("ToNative() = %#v, want %#v", got, want)
	}

	if got := ToNative(Symbol("x")); got != "x" {
		t.Errorf("ToNative(Symbol) = %#v, want %q", got, "x")
	}
}

func TestFormatJSON(t *testing.T) {
	doc, err := ParseString(t.Context(), `(a (b)) c`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatJSON(t.Context(), &buf, doc, 0); err != nil {
		t.Fatalf("FormatJSON() error: %v", err)
	}

	want := `[["a",["b"]],"c"]` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("FormatJSON() = %q, want %q", got, want)
	}

	buf.Reset()

	if err := FormatJSON(t.Context(), &buf, doc, 2); err != nil {
		t.Fatalf("FormatJSON(indent) error: %v", err)
	}

	var decoded any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if !reflect.DeepEqual(decoded, ToNative(doc)) {
		t.Errorf("decoded = %#v, want %#v", decoded, ToNative(doc))
	}
}

func TestFormatYAML(t *testing.T) {
	doc, err := ParseString(t.Context(), `(a (b)) c "d e"`)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := FormatYAML(t.Context(), &buf, doc, indent); err != nil {
			t.Fatalf("FormatYAML(%d) error: %v", indent, err)
		}

		var decoded any
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("yaml.Unmarshal(%q) error: %v", buf.String(), err)
		}

		if !reflect.DeepEqual(decoded, ToNative(doc)) {
			t.Errorf("indent %d: decoded = %#v, want %#v", indent, decoded, ToNative(doc))
		}
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer

	Print(&buf, NewExpression(Symbol("a"), Symbols("b c")))

	want := "Expression [2]\n  Symbol a\n  Expression [1]\n    Symbol \"b c\"\n"
	if got := buf.String(); got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}
