package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes doc in source syntax, one top-level item per line.
//
// With indent > 0, expressions that contain nested expressions are broken
// across lines, each nested item indented by indent spaces per level. With
// indent == 0 every item is written on a single line. The output parses back
// to a tree equal to doc.
func Format(_ context.Context, w io.Writer, doc Expression, indent int) error {
	var b strings.Builder

	for _, item := range doc.All() {
		formatNode(&b, item, indent, 0)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// formatNode writes n at the given nesting depth.
func formatNode(b *strings.Builder, n Node, indent, depth int) {
	expr, ok := n.(Expression)
	if !ok || indent <= 0 || !hasNested(expr) {
		b.WriteString(n.String())

		return
	}

	pad := strings.Repeat(" ", indent*(depth+1))

	b.WriteByte('(')

	for i, item := range expr.All() {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(pad)
		}

		formatNode(b, item, indent, depth+1)
	}

	b.WriteByte(')')
}

func hasNested(e Expression) bool {
	for _, item := range e.All() {
		if item.Kind() == KindExpression {
			return true
		}
	}

	return false
}

// ToNative converts n to plain Go values: a Symbol becomes a string and an
// Expression becomes a []any of converted items.
func ToNative(n Node) any {
	switch v := n.(type) {
	case Symbol:
		return v.Value()

	case Expression:
		out := make([]any, 0, v.Len())
		for _, item := range v.All() {
			out = append(out, ToNative(item))
		}

		return out

	default:
		return nil
	}
}

// FormatJSON writes doc as a JSON array of nested arrays and strings.
func FormatJSON(_ context.Context, w io.Writer, doc Expression, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ToNative(doc), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToNative(doc))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes doc as a YAML sequence of nested sequences and strings.
func FormatYAML(ctx context.Context, w io.Writer, doc Expression, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToNative(doc), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Print writes an indented debug tree of n, one node per line.
func Print(w io.Writer, n Node) {
	printNode(w, n, 0)
}

func printNode(w io.Writer, n Node, depth int) {
	pad := strings.Repeat("  ", depth)

	switch v := n.(type) {
	case Symbol:
		fmt.Fprintf(w, "%s%s %s\n", pad, v.Kind(), v.String())

	case Expression:
		fmt.Fprintf(w, "%s%s [%d]\n", pad, v.Kind(), v.Len())

		for _, item := range v.All() {
			printNode(w, item, depth+1)
		}
	}
}
